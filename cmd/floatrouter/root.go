package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "floatrouter",
	Short: "Adaptive SQL/vector query router for Argo float data",
	Long: `floatrouter stores Argo float metadata in PostgreSQL and Qdrant, routes
natural-language questions to the store best suited to answer them, and
repairs drift between the two stores.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (FLOATROUTER_* variables override it)")

	rootCmd.AddCommand(serveCmd, queryCmd, searchCmd, ingestCmd, syncCmd, auditCmd, statsCmd, migrateCmd)
}

const startStopTimeout = 30 * time.Second

// runOnce starts an fx app built from opts, calls fn and stops the app.
func runOnce(ctx context.Context, fn func(ctx context.Context) error, opts ...fx.Option) error {
	app := fx.New(append(opts, fx.StartTimeout(startStopTimeout), fx.StopTimeout(startStopTimeout))...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startStopTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.WithoutCancel(ctx), startStopTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
