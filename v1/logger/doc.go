// Package logger wraps go.uber.org/zap with a small, map based API used
// across the module.
//
// Every method takes a message, an optional error and any number of field
// maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Debug, ServiceName: "floatrouter"})
//	log.Warn("sql backend timed out", err, map[string]interface{}{
//	    "timeout": "30s",
//	})
//
// Entries are JSON with a "timestamp" key in ISO8601, the process id and the
// service name. When Config.EnableTracing is set, the *Ctx variants also
// record the trace and span id of the span carried by the context.
//
// Other packages depend on a locally declared Logger interface with the same
// method set, so *Logger can be passed anywhere without an import cycle.
package logger
