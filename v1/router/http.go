package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
)

const maxQueryBody = 64 << 10

// NewHandler serves the router over HTTP:
//
//	POST /query        {"query": "...", "strategy": "adaptive"} -> Envelope
//	GET  /stats        -> LedgerSnapshot
//	POST /stats/reset  clears the ledger
//
// Incoming trace headers are honoured, so a routed query joins the
// caller's trace.
func NewHandler(r *Router, log Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /query", func(w http.ResponseWriter, req *http.Request) {
		var q Query
		if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxQueryBody)).Decode(&q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if strings.TrimSpace(q.Text) == "" {
			writeError(w, http.StatusBadRequest, "query must not be empty")
			return
		}
		strategy, err := ParseStrategy(string(q.Strategy))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q.Strategy = strategy

		writeJSON(w, http.StatusOK, r.Route(req.Context(), q), log)
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, r.PerformanceSummary(), log)
	})

	mux.HandleFunc("POST /stats/reset", func(w http.ResponseWriter, req *http.Request) {
		r.ResetStats()
		log.Info("router statistics reset over HTTP", nil, nil)
		w.WriteHeader(http.StatusNoContent)
	})

	return otelhttp.NewHandler(mux, "router.http")
}

func writeJSON(w http.ResponseWriter, status int, v any, log Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write response", err, nil)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ServerModule serves NewHandler on Config.HTTPAddress. It needs the
// *Router from FXModule.
var ServerModule = fx.Module("router-http",
	fx.Invoke(RegisterHTTPServer),
)

// RegisterHTTPServer runs the query server in the background and shuts it
// down on stop.
func RegisterHTTPServer(lc fx.Lifecycle, cfg Config, r *Router, log Logger) {
	srv := &http.Server{
		Addr:              cfg.withDefaults().HTTPAddress,
		Handler:           NewHandler(r, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting router query server", nil, map[string]interface{}{
					"address": srv.Addr,
				})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting router query server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down router query server", nil, nil)
			return srv.Shutdown(ctx)
		},
	})
}
