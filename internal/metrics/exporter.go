// internal/metrics/exporter.go
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exposes metrics via HTTP
type Exporter struct {
	server *http.Server
	ln     net.Listener
}

// NewExporter binds addr and serves /metrics from g.
// Binding happens here so a bad address fails at startup.
func NewExporter(addr string, g prometheus.Gatherer) (*Exporter, error) {
	if addr == "" {
		return nil, errors.New("metrics: listen address required")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return &Exporter{
		ln: ln,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Addr is the bound address.
func (e *Exporter) Addr() string { return e.ln.Addr().String() }

// Start serves until Stop. Returns nil after a clean Stop.
func (e *Exporter) Start() error {
	if err := e.server.Serve(e.ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the exporter
func (e *Exporter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return e.server.Shutdown(ctx)
}
