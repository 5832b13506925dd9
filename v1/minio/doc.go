// Package minio stores JSON documents in one MinIO bucket. The reconciler
// uses it to keep an audit object per reconciliation pass.
package minio
