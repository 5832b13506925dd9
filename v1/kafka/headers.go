package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Propagator moves trace context in and out of a string carrier.
// tracer.Tracer implements it.
type Propagator interface {
	GetCarrier(ctx context.Context) map[string]string
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

func injectHeaders(ctx context.Context, p Propagator) []kafka.Header {
	if p == nil {
		return nil
	}
	carrier := p.GetCarrier(ctx)
	if len(carrier) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(carrier))
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

// extractContext returns ctx carrying the trace context of the first message
// in msgs that has one.
func extractContext(ctx context.Context, p Propagator, msgs []kafka.Message) context.Context {
	if p == nil {
		return ctx
	}
	for _, m := range msgs {
		if len(m.Headers) == 0 {
			continue
		}
		carrier := make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			carrier[h.Key] = string(h.Value)
		}
		return p.SetCarrierOnContext(ctx, carrier)
	}
	return ctx
}
