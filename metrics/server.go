package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tayfurcnr/lynk/logging"
)

// Serve registers collector with a fresh prometheus.Registry and
// starts an HTTP server exposing it at /metrics. It blocks until the
// server stops or ctx is cancelled, and is meant to run in its own
// goroutine from cmd/lynkd.
func Serve(ctx context.Context, addr string, collector *Collector) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return fmt.Errorf("metrics: register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		logging.Log.WithField("addr", addr).Info("metrics: shutting down server")
		return server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("metrics: server: %w", err)
	}
}
