//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/23skdu/longbow-halfprec/internal/client"
	"github.com/23skdu/longbow-halfprec/internal/column"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	addr := "localhost:9090"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	log.Info().Str("addr", addr).Msg("Connecting to halfprec Flight server")

	c, err := client.NewFlightClient(addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create client")
	}
	defer c.Close()

	pool := memory.NewGoAllocator()
	b := array.NewFloat32Builder(pool)
	defer b.Release()
	want := []float32{1, -2, 0.5, 65504, 1e-8}
	b.AppendValues(want, nil)
	arr := b.NewArray()
	defer arr.Release()
	schema := arrow.NewSchema([]arrow.Field{{Name: "vector", Type: arrow.PrimitiveTypes.Float32}}, nil)
	rec := array.NewRecordBatch(schema, []arrow.Array{arr}, int64(len(want)))
	defer rec.Release()

	// The server may still be starting.
	ctx := context.Background()
	for i := 0; ; i++ {
		if err = c.DoPut(ctx, "verify", rec); err == nil {
			break
		}
		if i == 9 {
			log.Fatal().Err(err).Msg("DoPut failed after retries")
		}
		log.Warn().Err(err).Msg("DoPut failed, retrying...")
		time.Sleep(1 * time.Second)
	}

	start := time.Now()
	recs, err := c.DoGet(ctx, "verify", pool)
	if err != nil {
		log.Fatal().Err(err).Msg("DoGet failed")
	}
	defer column.Release(recs)
	log.Info().Dur("elapsed", time.Since(start)).Int("batches", len(recs)).Msg("Received narrowed batches")

	if len(recs) != 1 {
		log.Fatal().Int("got", len(recs)).Msg("Expected one batch")
	}
	col, ok := recs[0].Column(0).(*array.Float16)
	if !ok {
		log.Fatal().Str("type", recs[0].Column(0).DataType().String()).Msg("Column was not narrowed")
	}
	for i, h := range column.Halves(col) {
		log.Info().Int("index", i).Float32("sent", want[i]).Str("bits", fmt.Sprintf("0x%04X", h.Bits())).Stringer("value", h).Msg("Value narrowed")
	}

	fmt.Println("VERIFICATION PASSED")
}
