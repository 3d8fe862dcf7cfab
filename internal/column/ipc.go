package column

import (
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ErrNoRecords is returned when an IPC stream carries a schema but no batches.
var ErrNoRecords = errors.New("column: stream has no record batches")

// WriteStream writes recs as one Arrow IPC stream. All records must share
// the schema of the first.
func WriteStream(w io.Writer, mem memory.Allocator, recs ...arrow.RecordBatch) error {
	if len(recs) == 0 {
		return ErrNoRecords
	}
	writer := ipc.NewWriter(w, ipc.WithSchema(recs[0].Schema()), ipc.WithAllocator(mem))
	for _, rec := range recs {
		if err := writer.Write(rec); err != nil {
			_ = writer.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}
	return writer.Close()
}

// ReadStream reads every record batch of an Arrow IPC stream. The caller
// owns the returned records and must release them.
func ReadStream(r io.Reader, mem memory.Allocator) ([]arrow.RecordBatch, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open ipc stream: %w", err)
	}
	defer reader.Release()

	var recs []arrow.RecordBatch
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		Release(recs)
		return nil, fmt.Errorf("read ipc stream: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	return recs, nil
}

// Release releases every record in recs.
func Release(recs []arrow.RecordBatch) {
	for _, rec := range recs {
		rec.Release()
	}
}
