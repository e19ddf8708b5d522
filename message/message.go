package message

import (
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/firehose"
	"github.com/aws/aws-sdk-go/service/kinesis"
)

// ValueColumn is the name of the single string column every RowBatch exposes.
const ValueColumn = "value"

// RowBatch is an immutable batch of synthetic rows with one string column.
type RowBatch struct {
	Rows []string
}

// Len returns the number of rows in the batch.
func (b *RowBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// Columns returns the column names of the batch in order.
func (b *RowBatch) Columns() []string {
	return []string{ValueColumn}
}

// ToKinesisEntries converts each row of the batch into a PutRecords request entry.
func (b *RowBatch) ToKinesisEntries(partitionKey string) []*kinesis.PutRecordsRequestEntry {
	entries := make([]*kinesis.PutRecordsRequestEntry, 0, b.Len())
	for _, row := range b.Rows {
		entries = append(entries, &kinesis.PutRecordsRequestEntry{
			Data:         []byte(row),
			PartitionKey: aws.String(partitionKey),
		})
	}
	return entries
}

// ToFirehoseRecords converts each row of the batch into a newline terminated Firehose record.
func (b *RowBatch) ToFirehoseRecords() []*firehose.Record {
	records := make([]*firehose.Record, 0, b.Len())
	for _, row := range b.Rows {
		records = append(records, &firehose.Record{
			Data: []byte(row + "\n"),
		})
	}
	return records
}

// ChunkKind identifies which payload a Chunk carries.
type ChunkKind int

const (
	// ChunkNone is returned once a message's payload has already been taken.
	ChunkNone ChunkKind = iota

	// ChunkRows carries a RowBatch.
	ChunkRows
)

// Chunk is the payload of a Message.  Rows is only set when Kind is ChunkRows.
type Chunk struct {
	Kind ChunkKind
	Rows *RowBatch
}

// Message is a single-use envelope handed from a producer to a sink.  The payload can be taken exactly once and
// the acknowledgment hook runs at most once.
type Message struct {
	origin  string
	payload *RowBatch
	ack     func()
	ackOnce sync.Once
}

// New wraps a RowBatch in a Message.  ack may be nil.
func New(origin string, rows *RowBatch, ack func()) *Message {
	return &Message{
		origin:  origin,
		payload: rows,
		ack:     ack,
	}
}

// Origin returns the tag identifying the stream the message belongs to.
func (m *Message) Origin() string {
	return m.origin
}

// Take removes and returns the payload.  Every call after the first returns a ChunkNone.
func (m *Message) Take() Chunk {
	if m.payload == nil {
		return Chunk{Kind: ChunkNone}
	}
	rows := m.payload
	m.payload = nil
	return Chunk{Kind: ChunkRows, Rows: rows}
}

// Ack is called by the sink once the payload has been durably accepted.
func (m *Message) Ack() {
	m.ackOnce.Do(func() {
		if m.ack != nil {
			m.ack()
		}
	})
}
