package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contre95/maichart/src/features/config"
	"github.com/contre95/maichart/src/features/importing"
	"github.com/contre95/maichart/src/features/logging"
	"github.com/contre95/maichart/src/features/metrics"
	"github.com/contre95/maichart/src/infra/watcher"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "path to the YAML config")
		in          = flag.String("in", "", "input song export (default import.input)")
		out         = flag.String("out", "", "filtered output path (default import.output)")
		watch       = flag.Bool("watch", false, "re-run whenever the input changes (default import.watch)")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address while watching, e.g. :9100")
	)
	flag.Parse()

	cfgManager, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slog.SetDefault(logging.SetupLogger(cfgManager))

	importCfg := cfgManager.Get().Import
	input, output := importCfg.Input, importCfg.Output
	if *in != "" {
		input = *in
	}
	if *out != "" {
		output = *out
	}
	watching := *watch || importCfg.Watch

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	service := importing.NewService(cfgManager, m)

	summary, err := service.Run(ctx, input, output)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	logSummary(summary)

	if !watching {
		return
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfgManager.Get().Metrics.Path, promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server stopped", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("Serving metrics", "addr", *metricsAddr, "path", cfgManager.Get().Metrics.Path)
	}

	events := make(chan watcher.FileEvent, 1)
	w, err := watcher.NewWatcher(events, time.Duration(importCfg.DebounceSecs)*time.Second)
	if err != nil {
		log.Fatalf("failed to create watcher: %v", err)
	}
	if err := service.Watch(ctx, w, events, input, output); err != nil {
		log.Fatalf("watch failed: %v", err)
	}
	slog.Info("Watcher stopped")
}

func logSummary(s *importing.Summary) {
	slog.Info("Filtering complete",
		"processingTime", s.ProcessingTime.Round(time.Millisecond).String(),
		"original", s.Info.OriginalCount,
		"valid", s.Info.ValidCount,
		"invalid", s.Info.InvalidCount,
		"successRate", s.Info.SuccessRate,
		"output", s.Output)
	if s.ErrorReport != "" {
		slog.Info("Invalid records written", "errorReport", s.ErrorReport)
	}
	for _, e := range s.InvalidExamples {
		slog.Warn("Invalid song example", "index", e.Index, "songId", e.SongID, "title", e.Title, "error", e.Error)
	}
}
