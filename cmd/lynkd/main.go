// Command lynkd is the mesh node daemon: it loads configuration, brings
// up the transport, router, and telemetry emitter, optionally serves
// Prometheus metrics, and runs until signaled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tayfurcnr/lynk/command"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/metrics"
	"github.com/tayfurcnr/lynk/node"
	"github.com/tayfurcnr/lynk/telemetry"
)

var configPath = flag.String("config", "config.json", "Path to the node's JSON configuration file")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logging.Log.WithError(err).Fatal("lynkd: fatal error")
	}
}

func run() error {
	data, err := os.ReadFile(*configPath)
	if err != nil {
		return fmt.Errorf("lynkd: read config: %w", err)
	}

	cfg, err := config.Load(data)
	if err != nil {
		return fmt.Errorf("lynkd: load config: %w", err)
	}
	logging.SetLevel(cfg.Logging.Level)

	n, err := node.New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		return fmt.Errorf("lynkd: build node: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("lynkd: start node: %w", err)
	}
	defer n.Stop()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, n.MetricsCollector()); err != nil {
				logging.Log.WithError(err).Error("lynkd: metrics server exited")
			}
		}()
		logging.Log.WithField("addr", cfg.Metrics.Listen).Info("lynkd: metrics endpoint enabled")
	}

	logging.Log.WithField("node_id", cfg.Vehicle.ID).Info("lynkd: running, press Ctrl+C to stop")
	<-ctx.Done()
	logging.Log.Info("lynkd: shutting down")
	return nil
}
