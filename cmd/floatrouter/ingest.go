package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/kafka"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

var publish bool

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE",
	Short: "Load float records from a JSON file into both stores",
	Long: `ingest reads a JSON array of float records (profiles optional) from FILE,
or stdin when FILE is "-". By default the records are written to PostgreSQL
and Qdrant directly; with --publish they are sent to the Kafka topic instead
and stored by a running "serve".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		records, err := readRecords(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		if publish {
			var (
				client *kafka.KafkaClient
				tr     *tracer.Tracer
			)
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				ctx, span := tr.StartSpan(ctx, "ingest.publish")
				defer span.End()
				if err := client.Publish(ctx, records...); err != nil {
					tr.RecordErrorOnSpan(span, err)
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "published %d records to %s\n", len(records), cfg.Kafka.Topic)
				return err
			},
				baseOptions(cfg),
				publishOptions(),
				fx.Populate(&client, &tr),
			)
		}

		var svc *dualstore.Service
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			res := svc.Ingest(ctx, records)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Status == dualstore.StatusError {
				return fmt.Errorf("ingest failed: %s", res.Message)
			}
			return nil
		},
			baseOptions(cfg),
			storeOptions(),
			dualStoreOptions(),
			fx.Populate(&svc),
		)
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&publish, "publish", false, "publish to Kafka instead of writing the stores")
}

// readRecords decodes and validates the records in path ("-" for stdin).
func readRecords(stdin io.Reader, path string) ([]floats.Record, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open records: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []floats.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}
