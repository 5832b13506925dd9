// Package kafka carries float records over a Kafka topic.
//
// KafkaClient publishes records as JSON keyed by float id. Consumer reads
// them with a consumer group, batches them by size or time and passes each
// batch to an Ingester (dualstore.Service):
//
//	client, err := kafka.NewClient(cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	consumer := kafka.NewConsumer(cfg, client.Reader(), store, log)
//	err = consumer.Run(ctx)
//
// Offsets are committed only after the structured store accepted the
// batch, so delivery is at least once. Messages that are not valid float
// records are logged and committed so they cannot block the partition.
//
// With fx, FXModule provides the client and ConsumerModule runs the
// consumer for the lifetime of the application.
package kafka
