package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/pkg/errors"

	"github.com/rewardStyle/rowloader/errs"
	"github.com/rewardStyle/rowloader/logging"
	"github.com/rewardStyle/rowloader/message"
)

// Kinesis writes every row as a record to an AWS Kinesis stream, using the message origin as the partition key.
type Kinesis struct {
	*streamOptions
	*logging.LogHelper

	stream string
	client kinesisiface.KinesisAPI
}

// NewKinesis creates a new sink writing to the given Kinesis stream.
func NewKinesis(c *aws.Config, stream string, fn ...func(*StreamConfig)) (*Kinesis, error) {
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
	return &Kinesis{
		streamOptions: cfg.streamOptions,
		LogHelper: &logging.LogHelper{
			LogLevel: cfg.LogLevel,
			Logger:   cfg.AwsConfig.Logger,
		},
		stream: stream,
		client: kinesis.New(sess),
	}, nil
}

// Consume writes messages to the stream until the channel is closed or a batch cannot be written.
func (k *Kinesis) Consume(ctx context.Context, messages <-chan *message.Message) error {
	return consume(ctx, messages, k.write)
}

func (k *Kinesis) write(ctx context.Context, origin string, rows *message.RowBatch) error {
	start := time.Now()
	entries := rows.ToKinesisEntries(origin)
	for lo := 0; lo < len(entries); lo += k.batchLimit {
		hi := lo + k.batchLimit
		if hi > len(entries) {
			hi = len(entries)
		}
		if err := k.putRecords(ctx, entries[lo:hi]); err != nil {
			return err
		}
	}
	k.Stats.AddRowsWritten(rows.Len())
	k.Stats.AddBatchesWritten(1)
	k.Stats.UpdateWriteDuration(time.Since(start))
	return nil
}

// putRecords sends a batch of records to Kinesis, resending the records that failed until they succeed or the max
// number of retries is exceeded.
func (k *Kinesis) putRecords(ctx context.Context, entries []*kinesis.PutRecordsRequestEntry) error {
	pending := entries
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt > k.maxRetryAttempts {
			k.Stats.AddRecordsFailed(len(pending))
			return errors.Wrapf(errs.ErrRetriesExhausted, "%d records for kinesis stream %s", len(pending), k.stream)
		}
		if attempt > 0 {
			k.Stats.AddRecordsRetried(len(pending))
			if err := sleep(ctx, k.retryDelay); err != nil {
				return err
			}
		}

		k.Stats.AddPutRecordsCalled(1)
		resp, err := k.client.PutRecordsWithContext(ctx, &kinesis.PutRecordsInput{
			StreamName: aws.String(k.stream),
			Records:    pending,
		})
		if err != nil {
			if aerr, ok := err.(awserr.Error); ok && aerr.Code() == kinesis.ErrCodeProvisionedThroughputExceededException {
				k.Stats.AddProvisionedThroughputExceeded(len(pending))
				k.LogDebug("PutRecords throttled, retrying", len(pending), "records")
				continue
			}
			k.LogError("Error putting records:", err.Error())
			return errors.Wrapf(err, "kinesis stream %s", k.stream)
		}
		if resp == nil {
			return errs.ErrNilPutRecordsResponse
		}
		if resp.FailedRecordCount == nil {
			return errs.ErrNilFailedRecordCount
		}

		failed := int(aws.Int64Value(resp.FailedRecordCount))
		k.LogDebug(fmt.Sprintf("Finished PutRecords request, %d records attempted, %d records failed",
			len(pending), failed))
		if failed == 0 {
			return nil
		}

		var retries []*kinesis.PutRecordsRequestEntry
		for idx, record := range resp.Records {
			if (record.SequenceNumber != nil && record.ShardId != nil) || idx >= len(pending) {
				continue
			}
			switch aws.StringValue(record.ErrorCode) {
			case kinesis.ErrCodeProvisionedThroughputExceededException:
				k.Stats.AddProvisionedThroughputExceeded(1)
			default:
				k.LogDebug("PutRecords record failed with error:", aws.StringValue(record.ErrorCode),
					aws.StringValue(record.ErrorMessage))
			}
			retries = append(retries, pending[idx])
		}
		if len(retries) == 0 {
			k.LogError(fmt.Sprintf("PutRecords reported %d failed records without naming them, resending all %d",
				failed, len(pending)))
			retries = pending
		}
		pending = retries
	}
	return nil
}
