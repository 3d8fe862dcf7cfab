package column

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-halfprec/internal/codec"
)

// VectorField is the name of the column BuildRecordBatch produces.
const VectorField = "vector"

// RecordBatchBuilder creates Arrow RecordBatches of half-precision vectors.
type RecordBatchBuilder struct {
	mem memory.Allocator
}

// NewRecordBatchBuilder creates a new builder.
func NewRecordBatchBuilder(mem memory.Allocator) *RecordBatchBuilder {
	return &RecordBatchBuilder{mem: mem}
}

// BuildRecordBatch narrows vectors into a single fixed_size_list<float16>
// column. All vectors must share one dimension. An empty input yields a nil
// record.
func (b *RecordBatchBuilder) BuildRecordBatch(vectors [][]float32) (arrow.RecordBatch, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	flat, dim, err := codec.Flatten(vectors)
	if err != nil {
		return nil, err
	}

	halves, _ := codec.Analyze(flat)
	nums := arrow.Float16Traits.CastFromBytes(codec.Encode(binary.LittleEndian, halves))

	listType := arrow.FixedSizeListOf(int32(dim), arrow.FixedWidthTypes.Float16)
	schema := arrow.NewSchema([]arrow.Field{{Name: VectorField, Type: listType}}, nil)

	listBuilder := array.NewFixedSizeListBuilder(b.mem, int32(dim), arrow.FixedWidthTypes.Float16)
	defer listBuilder.Release()
	valueBuilder := listBuilder.ValueBuilder().(*array.Float16Builder)

	for i := range vectors {
		listBuilder.Append(true)
		valueBuilder.AppendValues(nums[i*dim:(i+1)*dim], nil)
	}

	cols := []arrow.Array{listBuilder.NewArray()}
	defer cols[0].Release()

	return array.NewRecordBatch(schema, cols, int64(len(vectors))), nil
}
