// Package tracer wires an OpenTelemetry tracer provider into the application.
//
// Spans are always created so that trace ids can be logged, but they are only
// exported when Config.EnableExport is set. The OTLP HTTP exporter picks its
// endpoint up from OTEL_EXPORTER_OTLP_ENDPOINT.
//
//	tr, err := tracer.NewClient(cfg, log)
//	ctx, span := tr.StartSpan(ctx, "router.route")
//	defer span.End()
package tracer
