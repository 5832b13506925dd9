package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
)

// Publish writes records to the topic as JSON, keyed by float id so the
// records of one float stay on one partition.
func (k *KafkaClient) Publish(ctx context.Context, records ...floats.Record) (err error) {
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	var size int64
	defer func() {
		k.observeOperation("produce", k.cfg.Topic, "", time.Since(start), err, size, map[string]interface{}{
			"messages": len(records),
		})
	}()

	headers := injectHeaders(ctx, k.propagator)
	msgs := make([]kafka.Message, len(records))
	for i, r := range records {
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("kafka: encode float %s: %w", r.FloatID, err)
		}
		size += int64(len(body))
		msgs[i] = kafka.Message{Key: []byte(r.FloatID), Value: body, Headers: headers}
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: publish: %w", err)
	}
	return nil
}
