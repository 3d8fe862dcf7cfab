package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrCircuitOpen is returned by Forward while the upstream is considered down.
var ErrCircuitOpen = errors.New("client: upstream circuit open")

// Putter is the write side of FlightClient.
type Putter interface {
	DoPut(ctx context.Context, dataset string, record arrow.RecordBatch) error
}

// Forwarder sends record batches upstream through a circuit breaker.
type Forwarder struct {
	putter  Putter
	breaker *CircuitBreaker
	dataset string
}

func NewForwarder(p Putter, cb *CircuitBreaker, dataset string) *Forwarder {
	return &Forwarder{putter: p, breaker: cb, dataset: dataset}
}

// Forward puts record into the configured dataset.
func (f *Forwarder) Forward(ctx context.Context, record arrow.RecordBatch) error {
	span := trace.SpanFromContext(ctx)
	if !f.breaker.Allow() {
		span.AddEvent("upstream circuit open")
		return ErrCircuitOpen
	}
	span.AddEvent("forward", trace.WithAttributes(
		attribute.String("dataset", f.dataset),
		attribute.Int64("rows", record.NumRows()),
	))
	if err := f.putter.DoPut(ctx, f.dataset, record); err != nil {
		f.breaker.Failure()
		span.RecordError(err)
		log.Warn().Err(err).Str("dataset", f.dataset).Str("circuit", f.breaker.State().String()).Msg("Upstream put failed")
		return fmt.Errorf("forward to %s: %w", f.dataset, err)
	}
	f.breaker.Success()
	return nil
}
