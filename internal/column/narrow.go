package column

import (
	"encoding/binary"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-halfprec/half"
	"github.com/23skdu/longbow-halfprec/internal/codec"
)

// NarrowArray converts a float32 array, or a fixed-size list of float32, to
// the float16 equivalent. Other arrays are returned retained and unchanged
// with ok set to false.
func NarrowArray(mem memory.Allocator, arr arrow.Array) (out arrow.Array, report codec.Report, ok bool) {
	switch a := arr.(type) {
	case *array.Float32:
		out, report = narrowFloat32(mem, a)
		return out, report, true
	case *array.FixedSizeList:
		values, isFloat := a.ListValues().(*array.Float32)
		if !isFloat {
			break
		}
		child, report := narrowFloat32(mem, values)
		defer child.Release()

		typ := a.DataType().(*arrow.FixedSizeListType)
		// Child positions are unchanged, so the parent validity bitmap and
		// offset carry over.
		data := array.NewData(
			arrow.FixedSizeListOf(typ.Len(), arrow.FixedWidthTypes.Float16),
			a.Len(),
			[]*memory.Buffer{a.Data().Buffers()[0]},
			[]arrow.ArrayData{child.Data()},
			a.NullN(),
			a.Data().Offset(),
		)
		defer data.Release()
		return array.NewFixedSizeListData(data), report, true
	}
	arr.Retain()
	return arr, codec.Report{}, false
}

func narrowFloat32(mem memory.Allocator, a *array.Float32) (arrow.Array, codec.Report) {
	halves, report := codec.Analyze(a.Float32Values())
	nums := arrow.Float16Traits.CastFromBytes(codec.Encode(binary.LittleEndian, halves))

	var valid []bool
	if a.NullN() > 0 {
		valid = make([]bool, a.Len())
		for i := range valid {
			valid[i] = a.IsValid(i)
		}
	}

	b := array.NewFloat16Builder(mem)
	defer b.Release()
	b.AppendValues(nums, valid)
	return b.NewArray(), report
}

// WidenArray returns the float32 values of a float16 array, or of the
// flattened child of a fixed-size list of float16. Null slots widen to
// whatever bits they hold.
func WidenArray(arr arrow.Array) ([]float32, error) {
	switch a := arr.(type) {
	case *array.Float16:
		halves, err := codec.Decode(binary.LittleEndian, arrow.Float16Traits.CastToBytes(a.Values()))
		if err != nil {
			return nil, err
		}
		return codec.Widen(make([]float32, 0, len(halves)), halves), nil
	case *array.FixedSizeList:
		values, err := WidenArray(a.ListValues())
		if err != nil {
			return nil, err
		}
		n := int(a.DataType().(*arrow.FixedSizeListType).Len())
		off := a.Data().Offset()
		return values[off*n : (off+a.Len())*n], nil
	default:
		return nil, fmt.Errorf("column: cannot widen %s", arr.DataType())
	}
}

// NarrowRecord narrows every float32 column of rec, and every fixed-size list
// of float32, to float16. The returned record must be released by the
// caller.
func NarrowRecord(mem memory.Allocator, rec arrow.RecordBatch) (arrow.RecordBatch, codec.Report) {
	var total codec.Report
	fields := make([]arrow.Field, rec.NumCols())
	cols := make([]arrow.Array, rec.NumCols())
	for i, col := range rec.Columns() {
		out, report, _ := NarrowArray(mem, col)
		defer out.Release()
		total.Merge(report)

		f := rec.Schema().Field(i)
		f.Type = out.DataType()
		fields[i] = f
		cols[i] = out
	}
	md := rec.Schema().Metadata()
	schema := arrow.NewSchema(fields, &md)
	return array.NewRecordBatch(schema, cols, rec.NumRows()), total
}

// WidenRecord is the inverse of NarrowRecord for float16 columns.
func WidenRecord(mem memory.Allocator, rec arrow.RecordBatch) (arrow.RecordBatch, error) {
	fields := make([]arrow.Field, rec.NumCols())
	cols := make([]arrow.Array, rec.NumCols())
	for i, col := range rec.Columns() {
		f := rec.Schema().Field(i)
		out, err := widenColumn(mem, col)
		if err != nil {
			for _, c := range cols[:i] {
				c.Release()
			}
			return nil, fmt.Errorf("widen column %q: %w", f.Name, err)
		}
		defer out.Release()
		f.Type = out.DataType()
		fields[i] = f
		cols[i] = out
	}
	md := rec.Schema().Metadata()
	return array.NewRecordBatch(arrow.NewSchema(fields, &md), cols, rec.NumRows()), nil
}

func widenColumn(mem memory.Allocator, col arrow.Array) (arrow.Array, error) {
	switch a := col.(type) {
	case *array.Float16:
		return widenFloat16(mem, a)
	case *array.FixedSizeList:
		values, ok := a.ListValues().(*array.Float16)
		if !ok {
			break
		}
		child, err := widenFloat16(mem, values)
		if err != nil {
			return nil, err
		}
		defer child.Release()

		typ := a.DataType().(*arrow.FixedSizeListType)
		data := array.NewData(
			arrow.FixedSizeListOf(typ.Len(), arrow.PrimitiveTypes.Float32),
			a.Len(),
			[]*memory.Buffer{a.Data().Buffers()[0]},
			[]arrow.ArrayData{child.Data()},
			a.NullN(),
			a.Data().Offset(),
		)
		defer data.Release()
		return array.NewFixedSizeListData(data), nil
	}
	col.Retain()
	return col, nil
}

func widenFloat16(mem memory.Allocator, a *array.Float16) (arrow.Array, error) {
	values, err := WidenArray(a)
	if err != nil {
		return nil, err
	}
	var valid []bool
	if a.NullN() > 0 {
		valid = make([]bool, a.Len())
		for i := range valid {
			valid[i] = a.IsValid(i)
		}
	}
	b := array.NewFloat32Builder(mem)
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewArray(), nil
}

// Halves returns the binary16 values of a float16 array.
func Halves(a *array.Float16) []half.Float16 {
	out := make([]half.Float16, a.Len())
	for i := range out {
		out[i] = half.FromBits(a.Value(i).Uint16())
	}
	return out
}
