package minio

import (
	"time"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// observeOperation notifies the observer, if any.
//
//   - resource: bucket name, defaults to the configured bucket
//   - subResource: object key or prefix
func (m *MinioClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if m == nil || m.observer == nil {
		return
	}

	if resource == "" {
		resource = m.cfg.Connection.BucketName
	}

	m.observer.ObserveOperation(observability.OperationContext{
		Component:   "minio",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
