package sink

import (
	. "github.com/smartystreets/goconvey/convey"

	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/firehose"
	"github.com/aws/aws-sdk-go/service/firehose/firehoseiface"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"

	"github.com/rewardStyle/rowloader/errs"
)

type mockFirehoseClient struct {
	firehoseiface.FirehoseAPI
	failCalls int
	calls     int
	records   []string
	nilCount  bool
	unnamed   int // calls that report every record failed without any response entries
}

func (m *mockFirehoseClient) PutRecordBatchWithContext(ctx aws.Context, in *firehose.PutRecordBatchInput, opts ...request.Option) (*firehose.PutRecordBatchOutput, error) {
	m.calls++
	out := &firehose.PutRecordBatchOutput{}
	if m.nilCount {
		return out, nil
	}
	if m.calls <= m.unnamed {
		out.FailedPutCount = aws.Int64(int64(len(in.Records)))
		return out, nil
	}

	var failed int64
	for _, record := range in.Records {
		if m.calls <= m.failCalls {
			failed++
			out.RequestResponses = append(out.RequestResponses, &firehose.PutRecordBatchResponseEntry{
				ErrorCode: aws.String(firehose.ErrCodeServiceUnavailableException),
			})
			continue
		}
		m.records = append(m.records, string(record.Data))
		out.RequestResponses = append(out.RequestResponses, &firehose.PutRecordBatchResponseEntry{
			RecordId: aws.String("some-record-id"),
		})
	}
	out.FailedPutCount = aws.Int64(failed)
	return out, nil
}

func TestFirehose(t *testing.T) {
	Convey("given a firehose sink", t, func() {
		sc := NewDefaultStatsCollector(metrics.NewRegistry())
		f, err := NewFirehose(testAwsConfig(), "some-delivery-stream", func(c *StreamConfig) {
			c.SetMaxRetryAttempts(2)
			c.SetRetryDelay(time.Millisecond)
			c.SetStatsCollector(sc)
		})
		So(err, ShouldBeNil)
		So(f, ShouldNotBeNil)

		Convey("check that the sink was initialized correctly", func() {
			So(f.stream, ShouldEqual, "some-delivery-stream")
			So(f.client, ShouldNotBeNil)
			So(f.batchLimit, ShouldEqual, 500)
		})

		Convey("check that rows are written as newline terminated records", func() {
			mock := &mockFirehoseClient{}
			f.client = mock

			var acks int
			So(offer(f, newTestMessage(&acks, "a", "b")), ShouldBeNil)
			So(acks, ShouldEqual, 1)
			So(mock.records, ShouldResemble, []string{"a\n", "b\n"})
			So(sc.BatchesWritten.Count(), ShouldEqual, 1)
		})

		Convey("check that throttled records are retried", func() {
			mock := &mockFirehoseClient{failCalls: 2}
			f.client = mock

			var acks int
			So(offer(f, newTestMessage(&acks, "a")), ShouldBeNil)
			So(mock.calls, ShouldEqual, 3)
			So(sc.ServiceUnavailable.Count(), ShouldEqual, 2)
			So(sc.ProvisionedThroughputExceeded.Count(), ShouldEqual, 0)
			So(sc.RecordsRetried.Count(), ShouldEqual, 2)
		})

		Convey("check that a failed count without failed entries resends the whole batch", func() {
			mock := &mockFirehoseClient{unnamed: 1}
			f.client = mock

			var acks int
			So(offer(f, newTestMessage(&acks, "a", "b")), ShouldBeNil)
			So(acks, ShouldEqual, 1)
			So(mock.calls, ShouldEqual, 2)
			So(mock.records, ShouldResemble, []string{"a\n", "b\n"})
			So(sc.RecordsRetried.Count(), ShouldEqual, 2)
		})

		Convey("check that unnamed failures still exhaust the retries", func() {
			f.client = &mockFirehoseClient{unnamed: 100}

			var acks int
			err := offer(f, newTestMessage(&acks, "a"))
			So(errors.Cause(err), ShouldEqual, errs.ErrRetriesExhausted)
			So(acks, ShouldEqual, 0)
		})

		Convey("check that the sink fails once the retries are exhausted", func() {
			f.client = &mockFirehoseClient{failCalls: 100}

			var acks int
			err := offer(f, newTestMessage(&acks, "a"))
			So(errors.Cause(err), ShouldEqual, errs.ErrRetriesExhausted)
		})

		Convey("check that a response without a failed count is rejected", func() {
			f.client = &mockFirehoseClient{nilCount: true}

			var acks int
			So(offer(f, newTestMessage(&acks, "a")), ShouldEqual, errs.ErrNilFailedRecordCount)
		})
	})
}
