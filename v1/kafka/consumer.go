package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Ingester stores a batch of records. dualstore.Service implements it.
type Ingester interface {
	Ingest(ctx context.Context, records []floats.Record) dualstore.IngestResult
}

// Consumer reads float records from the topic in batches and hands them to
// an Ingester. Offsets are committed once the structured store accepted the
// batch; a rejected batch is retried with backoff and never skipped.
// Messages that do not decode to a valid float are logged and committed.
type Consumer struct {
	reader     MessageReader
	ingester   Ingester
	logger     Logger
	observer   observability.Observer
	propagator Propagator

	topic        string
	batchSize    int
	batchTimeout time.Duration

	// newBackOff is swapped in tests
	newBackOff func() backoff.BackOff
}

func NewConsumer(cfg Config, reader MessageReader, ingester Ingester, logger Logger) *Consumer {
	cfg = cfg.withDefaults()
	return &Consumer{
		reader:       reader,
		ingester:     ingester,
		logger:       logger,
		topic:        cfg.Topic,
		batchSize:    cfg.BatchSize,
		batchTimeout: cfg.BatchTimeout,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = time.Minute
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (c *Consumer) WithObserver(o observability.Observer) *Consumer {
	c.observer = o
	return c
}

// WithPropagator continues the producer's trace for each ingested batch.
func (c *Consumer) WithPropagator(p Propagator) *Consumer {
	c.propagator = p
	return c
}

// Run consumes until ctx is cancelled. It returns nil on cancellation and
// the reader's error otherwise.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msgs, err := c.fetchBatch(ctx)
		if ctx.Err() != nil {
			// uncommitted messages are redelivered to the next member
			return nil
		}
		if len(msgs) > 0 {
			if ferr := c.flush(ctx, msgs); ferr != nil {
				return nilOnCancel(ctx, ferr)
			}
		}
		if err != nil {
			return err
		}
	}
}

// fetchBatch collects up to batchSize messages. It returns early when the
// batch timeout expires with at least one message pending.
func (c *Consumer) fetchBatch(ctx context.Context) ([]kafka.Message, error) {
	var msgs []kafka.Message
	var deadline time.Time

	for len(msgs) < c.batchSize {
		m, err := c.fetch(ctx, deadline)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return msgs, nil
			}
			return msgs, err
		}

		if len(msgs) == 0 {
			deadline = time.Now().Add(c.batchTimeout)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// fetch waits for one message, until deadline when it is set.
func (c *Consumer) fetch(ctx context.Context, deadline time.Time) (kafka.Message, error) {
	if deadline.IsZero() {
		return c.reader.FetchMessage(ctx)
	}
	fetchCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	return c.reader.FetchMessage(fetchCtx)
}

func (c *Consumer) flush(ctx context.Context, msgs []kafka.Message) error {
	start := time.Now()
	records := c.decode(msgs)

	var res dualstore.IngestResult
	if len(records) > 0 {
		ingestCtx := extractContext(ctx, c.propagator, msgs)
		op := func() error {
			res = c.ingester.Ingest(ingestCtx, records)
			if res.Status == dualstore.StatusError {
				return errors.New(res.Message)
			}
			return nil
		}
		notify := func(err error, wait time.Duration) {
			c.logger.Warn("ingest failed, retrying batch", err, map[string]interface{}{
				"records": len(records),
				"wait":    wait.String(),
			})
		}
		if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
			c.observe("consume", start, err, len(msgs))
			return fmt.Errorf("kafka: ingest batch: %w", err)
		}
	}

	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		c.observe("consume", start, err, len(msgs))
		return fmt.Errorf("kafka: commit: %w", err)
	}

	c.logger.Info("float batch consumed", nil, map[string]interface{}{
		"messages": len(msgs),
		"records":  len(records),
		"status":   string(res.Status),
		"offset":   strconv.FormatInt(msgs[len(msgs)-1].Offset, 10),
	})
	c.observe("consume", start, nil, len(msgs))
	return nil
}

// decode keeps the messages that hold a valid float record.
func (c *Consumer) decode(msgs []kafka.Message) []floats.Record {
	records := make([]floats.Record, 0, len(msgs))
	for _, m := range msgs {
		var r floats.Record
		err := json.Unmarshal(m.Value, &r)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			c.logger.Warn("dropping malformed float message", err, map[string]interface{}{
				"partition": m.Partition,
				"offset":    m.Offset,
			})
			continue
		}
		records = append(records, r)
	}
	return records
}

func (c *Consumer) observe(op string, start time.Time, err error, size int) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "kafka",
		Operation: op,
		Resource:  c.topic,
		Duration:  time.Since(start),
		Error:     err,
		Size:      int64(size),
	})
}

func nilOnCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
