package main

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-halfprec/internal/client"
	"github.com/23skdu/longbow-halfprec/internal/column"
)

func TestFlightServer_PutGet(t *testing.T) {
	server := flight.NewServerWithMiddleware(nil)
	server.RegisterFlightService(NewHalfprecFlightServer())
	require.NoError(t, server.Init("localhost:0"))
	go func() {
		_ = server.Serve()
	}()
	defer server.Shutdown()

	fc, err := client.NewFlightClient(server.Addr().String())
	require.NoError(t, err)
	defer fc.Close()

	pool := memory.NewGoAllocator()
	b := array.NewFloat32Builder(pool)
	defer b.Release()
	b.AppendValues([]float32{1, 0.1, -65504}, nil)
	arr := b.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "score", Type: arrow.PrimitiveTypes.Float32}}, nil)
	rec := array.NewRecordBatch(schema, []arrow.Array{arr}, 3)
	defer rec.Release()

	ctx := context.Background()
	require.NoError(t, fc.DoPut(ctx, "scores", rec))

	recs, err := fc.DoGet(ctx, "scores", pool)
	require.NoError(t, err)
	defer column.Release(recs)
	require.Len(t, recs, 1)

	col, ok := recs[0].Column(0).(*array.Float16)
	require.True(t, ok, "stored column should be float16, got %s", recs[0].Column(0).DataType())
	halves := column.Halves(col)
	assert.Equal(t, uint16(0x3c00), halves[0].Bits())
	assert.Equal(t, uint16(0x2e66), halves[1].Bits())
	assert.Equal(t, uint16(0xfbff), halves[2].Bits())

	_, err = fc.DoGet(ctx, "missing", pool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset")
}
