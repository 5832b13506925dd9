package router

import "context"

//go:generate mockgen -source=interface.go -destination=mock_interface_test.go -package=router

// StructuredBackend answers a natural language question from the relational
// store. An empty, error-free result is a valid answer.
type StructuredBackend interface {
	Execute(ctx context.Context, text string) ([]StructuredRow, error)
}

// VectorBackend answers a natural language question by similarity search.
type VectorBackend interface {
	Search(ctx context.Context, text string) ([]VectorMatch, error)
}

// Logger is the subset of logger.Logger used by the router.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
