package metrics

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hashline/hashline/internal/metrics/collectors"
)

// CreateMetricsServer starts a Prometheus metrics server on addr exposing
// the chain collectors. The caller is responsible for calling Shutdown on
// the returned server.
func CreateMetricsServer(stats collectors.ChainStats, addr string) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	for _, collector := range []prometheus.Collector{
		collectors.NewChainHeightCollector(stats),
		collectors.NewPendingTransactionsCollector(stats),
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return server, nil
}
