package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("configuration error", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	sites, err := connectSites(cfg.Sites, cfg.BaseURL, cfg.Timeout, logger)
	if err != nil {
		logger.Error("failed to resolve sites", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting SolarEdge Prometheus exporter", slog.String("port", cfg.Port))
	logger.Info(fmt.Sprintf("monitoring %d site(s)", len(sites)))
	for _, s := range sites {
		logger.Info("site", slog.String("site_name", s.Name), slog.String("site_id", s.Client.SiteID()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Influx != nil {
		influxClient := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
		defer influxClient.Close()

		a := newArchiver(sites, influxClient.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket), cfg.Influx.Interval, logger)
		go a.run(ctx)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(sites, logger))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(registry, sites),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutting down")
}

// newMux exposes /metrics, /health and an index page
func newMux(gatherer prometheus.Gatherer, sites []Site) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		page := `<!DOCTYPE html>
<html>
<head><title>SolarEdge Exporter</title></head>
<body>
<h1>SolarEdge Prometheus Exporter</h1>
<p>Monitoring %d site(s)</p>
<ul>
%s
</ul>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>`
		var sitesList strings.Builder
		for _, s := range sites {
			sitesList.WriteString(fmt.Sprintf("<li>%s: %s</li>\n", html.EscapeString(s.Name), html.EscapeString(s.Client.SiteID())))
		}
		fmt.Fprintf(w, page, len(sites), sitesList.String())
	})

	return mux
}
