package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/firehose"
	"github.com/aws/aws-sdk-go/service/firehose/firehoseiface"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/message"
)

// Firehose writes every row as a newline terminated record to an AWS Firehose delivery stream.
type Firehose struct {
	*streamOptions
	*logging.LogHelper

	stream string
	client firehoseiface.FirehoseAPI
}

// NewFirehose creates a new sink writing to the given delivery stream.
func NewFirehose(c *aws.Config, stream string, fn ...func(*StreamConfig)) (*Firehose, error) {
	cfg := NewStreamConfig(c)
	for _, f := range fn {
		f(cfg)
	}
	if cfg.maxRetryAttempts < 0 {
		return nil, errs.ErrInvalidMaxRetryAttempts
	}
	sess, err := session.NewSession(cfg.AwsConfig)
	if err != nil {
		return nil, err
	}
	return &Firehose{
		streamOptions: cfg.streamOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.AwsConfig.Logger,
		},
		stream: stream,
		client: firehose.New(sess),
	}, nil
}

// Consume writes messages to the delivery stream until the channel is closed or a batch cannot be written.
func (f *Firehose) Consume(ctx context.Context, messages <-chan *message.Message) error {
	return consume(ctx, messages, f.write)
}

func (f *Firehose) write(ctx context.Context, origin string, rows *message.RowBatch) error {
	start := time.Now()
	records := rows.ToFirehoseRecords()
	for lo := 0; lo < len(records); lo += f.batchLimit {
		hi := lo + f.batchLimit
		if hi > len(records) {
			hi = len(records)
		}
		if err := f.putRecordBatch(ctx, records[lo:hi]); err != nil {
			return err
		}
	}
	f.Stats.AddRowsWritten(rows.Len())
	f.Stats.AddBatchesWritten(1)
	f.Stats.UpdateWriteDuration(time.Since(start))
	return nil
}

// putRecordBatch sends a batch of records to Firehose, resending the records that failed until they succeed or
// the max number of retries is exceeded.
func (f *Firehose) putRecordBatch(ctx context.Context, records []*firehose.Record) error {
	pending := records
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt > f.maxRetryAttempts {
			f.Stats.AddRecordsFailed(len(pending))
			return errors.Wrapf(errs.ErrRetriesExhausted, "%d records for delivery stream %s", len(pending), f.stream)
		}
		if attempt > 0 {
			f.Stats.AddRecordsRetried(len(pending))
			if err := sleep(ctx, f.retryDelay); err != nil {
				return err
			}
		}

		f.Stats.AddPutRecordsCalled(1)
		resp, err := f.client.PutRecordBatchWithContext(ctx, &firehose.PutRecordBatchInput{
			DeliveryStreamName: aws.String(f.stream),
			Records:            pending,
		})
		if err != nil {
			f.LogError("Error putting records:", err.Error())
			return errors.Wrapf(err, "delivery stream %s", f.stream)
		}
		if resp == nil {
			return errs.ErrNilPutRecordsResponse
		}
		if resp.FailedPutCount == nil {
			return errs.ErrNilFailedRecordCount
		}

		failed := int(aws.Int64Value(resp.FailedPutCount))
		f.LogDebug(fmt.Sprintf("Finished PutRecordBatch request, %d records attempted, %d records failed",
			len(pending), failed))
		if failed == 0 {
			return nil
		}

		var retries []*firehose.Record
		for idx, record := range resp.RequestResponses {
			if record.RecordId != nil || idx >= len(pending) {
				continue
			}
			switch aws.StringValue(record.ErrorCode) {
			case firehose.ErrCodeServiceUnavailableException:
				f.Stats.AddServiceUnavailable(1)
			default:
				f.LogDebug("PutRecordBatch record failed with error:", aws.StringValue(record.ErrorCode),
					aws.StringValue(record.ErrorMessage))
			}
			retries = append(retries, pending[idx])
		}
		if len(retries) == 0 {
			f.LogError(fmt.Sprintf("PutRecordBatch reported %d failed records without naming them, resending all %d",
				failed, len(pending)))
			retries = pending
		}
		pending = retries
	}
	return nil
}
