package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// Logger is the subset of logger.Logger the package uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClient owns the reader and writer of the float topic.
type KafkaClient struct {
	cfg        Config
	logger     Logger
	observer   observability.Observer
	propagator Propagator

	reader *kafka.Reader
	writer messageWriter

	closeOnce sync.Once
}

// NewClient builds a group reader and a writer for cfg.Topic. Nothing is
// dialled until the first fetch or write.
func NewClient(cfg Config, logger Logger) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: brokers and topic are required")
	}
	cfg = cfg.withDefaults()

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	dialer := &kafka.Dialer{
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}

	k := &KafkaClient{
		cfg:    cfg,
		logger: logger,
		reader: createReader(cfg, dialer, logger),
		writer: createWriter(cfg, dialer, logger),
	}

	logger.Info("kafka client initialized", nil, map[string]interface{}{
		"brokers":  cfg.Brokers,
		"topic":    cfg.Topic,
		"group_id": cfg.GroupID,
	})
	return k, nil
}

func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// WithPropagator makes Publish attach the caller's trace context as message
// headers.
func (k *KafkaClient) WithPropagator(p Propagator) *KafkaClient {
	k.propagator = p
	return k
}

// Reader exposes the group reader to the consumer.
func (k *KafkaClient) Reader() *kafka.Reader {
	return k.reader
}

// Close closes the reader and the writer once.
func (k *KafkaClient) Close() error {
	var errs []error
	k.closeOnce.Do(func() {
		if k.reader != nil {
			if err := k.reader.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close reader: %w", err))
			}
		}
		if err := k.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer: %w", err))
		}
	})
	if len(errs) > 0 {
		k.logger.Warn("failed to close kafka client", errs[0], nil)
		return errs[0]
	}
	return nil
}

func createErrorLogger(logger Logger) kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		logger.Error("kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
		})
	}
}

func createWriter(cfg Config, dialer *kafka.Dialer, logger Logger) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: int(kafka.RequireAll),
		Dialer:       dialer,
		ErrorLogger:  createErrorLogger(logger),
	}

	switch cfg.CompressionCodec {
	case "gzip":
		writerConfig.CompressionCodec = &compress.GzipCodec
	case "snappy":
		writerConfig.CompressionCodec = &compress.SnappyCodec
	case "lz4":
		writerConfig.CompressionCodec = &compress.Lz4Codec
	case "zstd":
		writerConfig.CompressionCodec = &compress.ZstdCodec
	}

	return kafka.NewWriter(writerConfig)
}

// createReader builds a group reader with auto-commit off; offsets are
// committed explicitly after a batch is stored.
func createReader(cfg Config, dialer *kafka.Dialer, logger Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		StartOffset:    cfg.StartOffset,
		CommitInterval: 0,
		Dialer:         dialer,
		ErrorLogger:    createErrorLogger(logger),
	})
}

func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
