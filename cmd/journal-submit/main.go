// Command journal-submit sends journal entries to a journal server.
//
// Single entry:
//
//	journal-submit -title "Hello" -text "World"
//
// Terminal form, one entry per title/text line pair until EOF:
//
//	journal-submit -form
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dshills/journal-go/journal"
	"github.com/dshills/journal-go/journal/config"
	"github.com/dshills/journal-go/journal/emit"
	"github.com/dshills/journal-go/journal/trigger"
)

const shutdownTimeout = 5 * time.Second

// newTracerProvider builds the provider installed as the global one. Exporters
// are attached by replacing it.
var newTracerProvider = func() *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider()
}

// Args holds parsed command-line flags.
type Args struct {
	ConfigFile  string
	ServerURL   string
	Title       string
	Text        string
	Form        bool
	LogFormat   string
	MetricsAddr string
}

func parseArgs(args []string, stderr io.Writer) (Args, error) {
	fs := flag.NewFlagSet("journal-submit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var a Args
	fs.StringVar(&a.ConfigFile, "config", "", "path to config YAML file")
	fs.StringVar(&a.ServerURL, "server", "", "journal server base URL (overrides config)")
	fs.StringVar(&a.Title, "title", "", "entry title")
	fs.StringVar(&a.Text, "text", "", "entry text")
	fs.BoolVar(&a.Form, "form", false, "read title/text line pairs from stdin, one entry per pair")
	fs.StringVar(&a.LogFormat, "log-format", "", "event log format: text or json (overrides config)")
	fs.StringVar(&a.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")

	if err := fs.Parse(args); err != nil {
		return Args{}, fmt.Errorf("flag parsing error: %w", err)
	}
	if fs.NArg() > 0 {
		return Args{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if a.Form && (a.Title != "" || a.Text != "") {
		return Args{}, errors.New("-form cannot be combined with -title or -text")
	}
	return a, nil
}

func loadConfig(a Args) (config.Config, error) {
	cfg, err := config.Load(a.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	if a.ServerURL != "" {
		cfg.ServerURL = a.ServerURL
	}
	if a.LogFormat != "" {
		cfg.LogFormat = a.LogFormat
	}
	if a.MetricsAddr != "" {
		cfg.MetricsAddr = a.MetricsAddr
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, osArgs []string, stdin io.Reader, stderr io.Writer) error {
	args, err := parseArgs(osArgs, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	tp := newTracerProvider()
	otel.SetTracerProvider(tp)
	tracing := emit.NewOTelEmitter(otel.Tracer(cfg.TraceName))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Flush(shutdownCtx); err != nil {
			log.Printf("tracer flush: %v", err)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	metrics := journal.NewPrometheusMetrics(registry)
	if cfg.MetricsAddr != "" {
		stopMetrics := serveMetrics(cfg.MetricsAddr, registry)
		defer stopMetrics()
	}

	emitter := emit.NewMultiEmitter(
		emit.NewLogEmitter(stderr, cfg.LogFormat == config.LogFormatJSON),
		tracing,
	)

	h, err := journal.New(cfg.ServerURL,
		journal.WithEmitter(emitter),
		journal.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if args.Form {
		err := h.Bind(ctx, trigger.NewForm(stdin, stderr))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return h.Submit(ctx, journal.Activation{Title: args.Title, Text: args.Text})
}

// serveMetrics exposes registry on addr and returns a func that stops it.
func serveMetrics(addr string, registry *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("Metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
