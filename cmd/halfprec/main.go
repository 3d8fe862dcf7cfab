package main

import (
	"context"
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/23skdu/longbow-halfprec/internal/client"
	"github.com/23skdu/longbow-halfprec/internal/config"
)

var defaults = config.Default()

var (
	configPath    = flag.String("config", "", "Path to a YAML config file")
	cpuProfile    = flag.String("cpuprofile", "", "Write cpu profile to file")
	rawBits       = flag.Bool("bits", false, "Inspect arguments as hex bit patterns (e.g. 0x3c00)")
	listenAddr    = flag.String("listen", defaults.Listen, "Address to listen on for HTTP Server (e.g. :8080)")
	flightAddr    = flag.String("flight", defaults.Flight, "Address to listen on for Flight Server (e.g. :9090)")
	upstreamAddr  = flag.String("upstream", defaults.Upstream, "Flight server to forward narrowed batches to (e.g. localhost:3000)")
	datasetName   = flag.String("dataset", defaults.Dataset, "Target dataset name on the upstream")
	transportFmt  = flag.String("transport-fmt", defaults.TransportFmt, "Format of forwarded batches: 'fp16' (default) or 'fp32'")
	maxConcurrent = flag.Int("max-concurrent", defaults.MaxConcurrent, "Maximum number of values narrowed concurrently")
	maxBody       = flag.String("max-body", defaults.MaxBody, "Maximum request body size (e.g. 64MB)")
	cacheSize     = flag.Int("cache-size", defaults.CacheSize, "Maximum cached /narrow results (0 for unbounded)")
	logLevel      = flag.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	enableOTel    = flag.Bool("otel", defaults.OTel, "Enable OpenTelemetry tracing (stdout)")
	lang          = flag.String("lang", defaults.Lang, "Language tag for localized inspect output")
)

// loadConfig layers explicitly set flags over the config file over the
// defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listenAddr
		case "flight":
			cfg.Flight = *flightAddr
		case "upstream":
			cfg.Upstream = *upstreamAddr
		case "dataset":
			cfg.Dataset = *datasetName
		case "transport-fmt":
			cfg.TransportFmt = *transportFmt
		case "max-concurrent":
			cfg.MaxConcurrent = *maxConcurrent
		case "max-body":
			cfg.MaxBody = *maxBody
		case "cache-size":
			cfg.CacheSize = *cacheSize
		case "log-level":
			cfg.LogLevel = *logLevel
		case "otel":
			cfg.OTel = *enableOTel
		case "lang":
			cfg.Lang = *lang
		}
	})
	return cfg, cfg.Validate()
}

func main() {
	// Initialize logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if cfg.OTel {
		shutdown, err := initTracer()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer shutdown(context.Background())
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create CPU profile file")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("Could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	if cfg.Listen != "" {
		var fwd *client.Forwarder
		if cfg.Upstream != "" {
			fc, err := client.NewFlightClient(cfg.Upstream)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create flight client")
			}
			defer fc.Close()
			log.Info().Str("addr", cfg.Upstream).Str("dataset", cfg.Dataset).Msg("Connected to upstream Flight server")
			fwd = client.NewForwarder(fc, client.NewCircuitBreaker(cfg.BreakerFailures, cfg.BreakerTimeout), cfg.Dataset)
		}

		srv := NewServer(cfg, fwd)
		if cfg.Flight == "" {
			startServer(cfg.Listen, srv)
			return
		}
		go startServer(cfg.Listen, srv)
	}

	if cfg.Flight != "" {
		StartFlightServer(cfg.Flight)
		return
	}

	if flag.NArg() == 0 {
		log.Warn().Msg("Nothing to inspect; pass values as arguments or use -listen/-flight")
		return
	}
	status := runInspect(os.Stdout, flag.Args(), *rawBits, cfg.Lang)
	pprof.StopCPUProfile()
	os.Exit(status)
}

func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("halfprec"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}
