package sink

import (
	. "github.com/smartystreets/goconvey/convey"

	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"

	"github.com/rewardStyle/rowloader/errs"
)

type fakeConn struct {
	execs   []string
	tables  []string
	copied  []string
	short   bool
	execErr error
	copyErr error
}

func (f *fakeConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return nil, f.execErr
}

func (f *fakeConn) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.tables = append(f.tables, tableName.Sanitize())
	var n int64
	for rowSrc.Next() {
		values, err := rowSrc.Values()
		if err != nil {
			return n, err
		}
		f.copied = append(f.copied, values[0].(string))
		n++
	}
	if f.short {
		n--
	}
	return n, nil
}

func TestPostgres(t *testing.T) {
	Convey("given a postgres sink over a fake connection", t, func() {
		conn := &fakeConn{}
		sc := NewDefaultStatsCollector(metrics.NewRegistry())
		p := newPostgres(conn, func(c *PostgresConfig) {
			c.SetSchema("loadtest")
			c.SetStatsCollector(sc)
		})

		Convey("check that rows are copied into the origin table", func() {
			var acks int
			So(offer(p, newTestMessage(&acks, "a", "b"), newTestMessage(&acks, "c")), ShouldBeNil)
			So(acks, ShouldEqual, 2)
			So(conn.tables, ShouldResemble, []string{`"loadtest"."metrics"`, `"loadtest"."metrics"`})
			So(conn.copied, ShouldResemble, []string{"a", "b", "c"})
			So(sc.RowsWritten.Count(), ShouldEqual, 3)
		})

		Convey("check that the table is only created once per origin", func() {
			var acks int
			So(offer(p, newTestMessage(&acks, "a"), newTestMessage(&acks, "b")), ShouldBeNil)
			So(conn.execs, ShouldResemble, createTableStatements("loadtest", "metrics"))
		})

		Convey("check that table creation can be turned off", func() {
			p.createTable = false
			var acks int
			So(offer(p, newTestMessage(&acks, "a")), ShouldBeNil)
			So(conn.execs, ShouldBeEmpty)
		})

		Convey("check that a short copy fails the sink", func() {
			conn.short = true
			var acks int
			err := offer(p, newTestMessage(&acks, "a", "b"))
			So(pkgerrors.Cause(err), ShouldEqual, errs.ErrShortCopy)
			So(acks, ShouldEqual, 0)
		})

		Convey("check that a copy error fails the sink", func() {
			boom := errors.New("connection reset")
			conn.copyErr = boom
			var acks int
			err := offer(p, newTestMessage(&acks, "a"))
			So(pkgerrors.Cause(err), ShouldEqual, boom)
		})

		Convey("check that a failed table creation fails the sink", func() {
			conn.execErr = errors.New("permission denied")
			var acks int
			So(offer(p, newTestMessage(&acks, "a")), ShouldNotBeNil)
			So(conn.copied, ShouldBeEmpty)
		})
	})

	Convey("check that the DDL quotes identifiers", t, func() {
		stmts := createTableStatements("public", "my table")
		So(stmts, ShouldResemble, []string{
			`CREATE SCHEMA IF NOT EXISTS "public"`,
			`CREATE TABLE IF NOT EXISTS "public"."my table" ("value" TEXT NOT NULL)`,
		})
	})
}

func TestPostgresIntegration(t *testing.T) {
	connString := os.Getenv("ROWLOADER_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("ROWLOADER_TEST_DATABASE_URL is not set")
	}

	Convey("given a postgres sink connected to a live database", t, func() {
		ctx := context.Background()
		p, err := NewPostgres(ctx, connString, func(c *PostgresConfig) {
			c.SetSchema("rowloader_test")
		})
		So(err, ShouldBeNil)
		defer p.Close()

		var acks int
		So(offer(p, newTestMessage(&acks, "abcdef0123456789")), ShouldBeNil)
		So(acks, ShouldEqual, 1)
	})
}
