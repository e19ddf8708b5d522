package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/message"
)

// pgxConn is the subset of *pgxpool.Pool the Postgres sink uses.
type pgxConn interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Postgres writes each row batch into the table named after the message origin using the COPY protocol.  A single
// Postgres sink is safe to share between producers; every Consume call draws its own connections from the pool.
type Postgres struct {
	*postgresOptions
	*logging.LogHelper

	conn     pgxConn
	close    func()
	tablesMu sync.Mutex
	tables   map[string]bool
}

// NewPostgres connects a pool to the database described by connString.
func NewPostgres(ctx context.Context, connString string, fn ...func(*PostgresConfig)) (*Postgres, error) {
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	p := newPostgres(pool, fn...)
	p.close = pool.Close
	return p, nil
}

func newPostgres(conn pgxConn, fn ...func(*PostgresConfig)) *Postgres {
	cfg := NewPostgresConfig()
	for _, f := range fn {
		f(cfg)
	}
	return &Postgres{
		postgresOptions: cfg.postgresOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.Logger,
		},
		conn:   conn,
		tables: make(map[string]bool),
	}
}

// Consume copies messages into postgres until the channel is closed or a batch cannot be written.
func (p *Postgres) Consume(ctx context.Context, messages <-chan *message.Message) error {
	return consume(ctx, messages, p.write)
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.close != nil {
		p.close()
	}
}

func (p *Postgres) write(ctx context.Context, origin string, rows *message.RowBatch) error {
	start := time.Now()
	if err := p.ensureTable(ctx, origin); err != nil {
		return err
	}

	table := pgx.Identifier{p.schema, origin}
	n, err := p.conn.CopyFrom(ctx, table, rows.Columns(),
		pgx.CopyFromSlice(rows.Len(), func(i int) ([]interface{}, error) {
			return []interface{}{rows.Rows[i]}, nil
		}),
	)
	if err != nil {
		p.LogError("Error copying rows:", err.Error())
		return errors.Wrapf(err, "copying into %s", table.Sanitize())
	}
	if n != int64(rows.Len()) {
		return errors.Wrapf(errs.ErrShortCopy, "only %d out of %d rows were inserted", n, rows.Len())
	}

	p.Stats.AddRowsWritten(rows.Len())
	p.Stats.AddBatchesWritten(1)
	p.Stats.UpdateWriteDuration(time.Since(start))
	return nil
}

// ensureTable creates the schema and origin table the first time an origin is seen.
func (p *Postgres) ensureTable(ctx context.Context, origin string) error {
	if !p.createTable {
		return nil
	}

	p.tablesMu.Lock()
	defer p.tablesMu.Unlock()
	if p.tables[origin] {
		return nil
	}

	for _, stmt := range createTableStatements(p.schema, origin) {
		if _, err := p.conn.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "creating table for origin %s", origin)
		}
	}
	p.LogInfo("Created table", pgx.Identifier{p.schema, origin}.Sanitize())
	p.tables[origin] = true
	return nil
}

func createTableStatements(schema, origin string) []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{schema}.Sanitize()),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT NOT NULL)",
			pgx.Identifier{schema, origin}.Sanitize(), pgx.Identifier{message.ValueColumn}.Sanitize()),
	}
}
