package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// PutJSON stores v as a JSON object under key.
func (m *MinioClient) PutJSON(ctx context.Context, key string, v any) (err error) {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("minio: encode %s: %w", key, err)
	}

	start := time.Now()
	defer func() {
		m.observeOperation("put", "", key, time.Since(start), err, int64(len(data)), nil)
	}()

	_, err = m.client.PutObject(ctx, m.Bucket(), key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

// GetJSON decodes the object under key into v.
func (m *MinioClient) GetJSON(ctx context.Context, key string, v any) (err error) {
	start := time.Now()
	var size int64
	defer func() {
		m.observeOperation("get", "", key, time.Since(start), err, size, nil)
	}()

	obj, err := m.client.GetObject(ctx, m.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio: get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("minio: read %s: %w", key, err)
	}
	size = int64(len(data))

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("minio: decode %s: %w", key, err)
	}
	return nil
}

// ListKeys returns the object keys under prefix, recursively.
func (m *MinioClient) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()

	var keys []string
	for obj := range m.client.ListObjects(ctx, m.Bucket(), minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			m.observeOperation("list", "", prefix, time.Since(start), obj.Err, 0, nil)
			return nil, fmt.Errorf("minio: list %s: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	m.observeOperation("list", "", prefix, time.Since(start), nil, int64(len(keys)), nil)
	return keys, nil
}
