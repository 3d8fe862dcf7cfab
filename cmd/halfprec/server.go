package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/fxamacker/cbor/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"github.com/23skdu/longbow-halfprec/half"
	"github.com/23skdu/longbow-halfprec/internal/cache"
	"github.com/23skdu/longbow-halfprec/internal/client"
	"github.com/23skdu/longbow-halfprec/internal/codec"
	"github.com/23skdu/longbow-halfprec/internal/column"
	"github.com/23skdu/longbow-halfprec/internal/config"
)

const arrowStreamType = "application/vnd.apache.arrow.stream"

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "halfprec_request_duration_seconds",
		Help:    "Time spent processing requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "halfprec_cache_requests_total",
		Help: "Narrow requests served from or missing the result cache",
	}, []string{"result"})

	forwardErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "halfprec_forward_errors_total",
		Help: "Record batches that could not be forwarded upstream",
	})
)

// narrowResponse is the CBOR body of /narrow. Report is omitted when the
// values come from the cache.
type narrowResponse struct {
	Values []half.Float16 `cbor:"values"`
	Report *codec.Report  `cbor:"report,omitempty"`
}

type Server struct {
	forwarder     *client.Forwarder
	transportFmt  string
	cache         cache.VectorCache
	alloc         memory.Allocator
	sem           *semaphore.Weighted
	maxConcurrent int64
	maxBody       int64
}

// NewServer builds the HTTP service. fwd may be nil when no upstream is
// configured.
func NewServer(cfg config.Config, fwd *client.Forwarder) *Server {
	return &Server{
		forwarder:     fwd,
		transportFmt:  cfg.TransportFmt,
		cache:         cache.NewMapCache(cfg.CacheSize),
		alloc:         memory.NewGoAllocator(),
		sem:           semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		maxConcurrent: int64(cfg.MaxConcurrent),
		maxBody:       cfg.MaxBodyBytes(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/narrow", s.handleNarrow)
	mux.HandleFunc("/widen", s.handleWiden)
	mux.HandleFunc("/encode/arrow", s.handleEncodeArrow)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func startServer(addr string, srv *Server) {
	log.Info().Str("addr", addr).Msg("Starting halfprec HTTP server")
	if srv.forwarder != nil {
		log.Info().Str("transport_fmt", srv.transportFmt).Msg("Forwarding narrowed batches upstream")
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

var tracer = otel.Tracer("halfprec-server")

// readBody reads a POST body within the size limit and writes the error
// response itself when it fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	body := io.Reader(r.Body)
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Bad Request: %v", err), http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// acquire reserves admission weight n, clamped to the semaphore size.
func (s *Server) acquire(ctx context.Context, n int) (int64, error) {
	weight := min(int64(n), s.maxConcurrent)
	if weight <= 0 {
		return 0, nil
	}
	return weight, s.sem.Acquire(ctx, weight)
}

func (s *Server) handleNarrow(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleNarrow")
	defer span.End()
	defer observeDuration("narrow", time.Now())

	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	key := cache.Key(data)
	if values, hit := s.cache.Get(key); hit {
		cacheRequests.WithLabelValues("hit").Inc()
		span.SetAttributes(attribute.Bool("cached", true))
		writeCBOR(w, narrowResponse{Values: values})
		return
	}
	cacheRequests.WithLabelValues("miss").Inc()

	var src []float64
	if err := cbor.Unmarshal(data, &src); err != nil {
		span.RecordError(err)
		http.Error(w, fmt.Sprintf("Bad Request (CBOR decode): %v", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("value_count", len(src)))

	weight, err := s.acquire(ctx, len(src))
	if err != nil {
		log.Error().Err(err).Msg("Failed to acquire semaphore")
		http.Error(w, "Server busy", http.StatusServiceUnavailable)
		return
	}
	defer s.sem.Release(weight)

	values, report := codec.Analyze64(src)
	s.cache.Put(key, values)
	writeCBOR(w, narrowResponse{Values: values, Report: &report})
}

func (s *Server) handleWiden(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "handleWiden")
	defer span.End()
	defer observeDuration("widen", time.Now())

	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var values []half.Float16
	if err := cbor.Unmarshal(data, &values); err != nil {
		span.RecordError(err)
		http.Error(w, fmt.Sprintf("Bad Request (CBOR decode): %v", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("value_count", len(values)))

	writeCBOR(w, codec.Widen(make([]float32, 0, len(values)), values))
}

func (s *Server) handleEncodeArrow(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleEncodeArrow")
	defer span.End()
	defer observeDuration("encode_arrow", time.Now())

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body := io.Reader(r.Body)
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	recs, err := column.ReadStream(body, s.alloc)
	if err != nil {
		span.RecordError(err)
		http.Error(w, fmt.Sprintf("Failed to read IPC stream: %v", err), http.StatusBadRequest)
		return
	}
	defer column.Release(recs)

	narrowed := make([]arrow.RecordBatch, 0, len(recs))
	defer func() { column.Release(narrowed) }()

	var total codec.Report
	for _, rec := range recs {
		weight, err := s.acquire(ctx, int(rec.NumRows()))
		if err != nil {
			log.Error().Err(err).Msg("Failed to acquire semaphore for arrow batch")
			http.Error(w, "Server busy", http.StatusServiceUnavailable)
			return
		}
		out, report := column.NarrowRecord(s.alloc, rec)
		s.sem.Release(weight)

		narrowed = append(narrowed, out)
		total.Merge(report)
		s.forward(ctx, out)
	}
	span.SetAttributes(
		attribute.Int("batch_count", len(recs)),
		attribute.Int("value_count", total.Count),
	)

	w.Header().Set("Content-Type", arrowStreamType)
	if err := column.WriteStream(w, s.alloc, narrowed...); err != nil {
		log.Error().Err(err).Msg("Error writing Arrow stream")
	}
}

// forward sends rec upstream in the configured transport format. Failures
// are logged and counted but do not fail the request.
func (s *Server) forward(ctx context.Context, rec arrow.RecordBatch) {
	if s.forwarder == nil {
		return
	}
	if s.transportFmt == config.TransportFP32 {
		wide, err := column.WidenRecord(s.alloc, rec)
		if err != nil {
			log.Error().Err(err).Msg("Cannot widen batch for upstream")
			forwardErrors.Inc()
			return
		}
		defer wide.Release()
		rec = wide
	}
	if err := s.forwarder.Forward(ctx, rec); err != nil {
		log.Error().Err(err).Int64("rows", rec.NumRows()).Msg("Error forwarding batch upstream")
		forwardErrors.Inc()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeCBOR(w http.ResponseWriter, v any) {
	data, err := cbor.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("CBOR encode failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/cbor")
	_, _ = w.Write(data)
}

func observeDuration(handler string, start time.Time) {
	requestDuration.WithLabelValues(handler).Observe(time.Since(start).Seconds())
}
