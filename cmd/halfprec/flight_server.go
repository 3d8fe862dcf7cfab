package main

import (
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/23skdu/longbow-halfprec/internal/column"
)

// HalfprecFlightServer narrows incoming float32 batches and serves the last
// narrowed batch of each descriptor path.
type HalfprecFlightServer struct {
	flight.BaseFlightServer
	alloc memory.Allocator

	mu       sync.RWMutex
	datasets map[string]arrow.RecordBatch
}

func NewHalfprecFlightServer() *HalfprecFlightServer {
	return &HalfprecFlightServer{
		alloc:    memory.NewGoAllocator(),
		datasets: make(map[string]arrow.RecordBatch),
	}
}

func (s *HalfprecFlightServer) DoPut(stream flight.FlightService_DoPutServer) error {
	reader, err := flight.NewRecordReader(stream, ipc.WithAllocator(s.alloc))
	if err != nil {
		return err
	}
	defer reader.Release()

	path := strings.Join(reader.LatestFlightDescriptor().GetPath(), "/")
	if path == "" {
		return status.Error(codes.InvalidArgument, "DoPut requires a path descriptor")
	}

	for reader.Next() {
		rec := reader.Record()
		out, report := column.NarrowRecord(s.alloc, rec)
		s.store(path, out)

		log.Info().Str("path", path).Int64("rows", rec.NumRows()).Int("values", report.Count).Msg("DoPut narrowed batch")

		meta, err := cbor.Marshal(report)
		if err != nil {
			return err
		}
		if err := stream.Send(&flight.PutResult{AppMetadata: meta}); err != nil {
			return err
		}
	}
	return reader.Err()
}

func (s *HalfprecFlightServer) DoGet(tkt *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	path := string(tkt.GetTicket())
	rec, ok := s.load(path)
	if !ok {
		return status.Errorf(codes.NotFound, "no dataset %q", path)
	}
	defer rec.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(s.alloc))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// store keeps rec as the latest batch for path, taking ownership of it.
func (s *HalfprecFlightServer) store(path string, rec arrow.RecordBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.datasets[path]; ok {
		old.Release()
	}
	s.datasets[path] = rec
}

// load returns a retained reference to the latest batch for path.
func (s *HalfprecFlightServer) load(path string) (arrow.RecordBatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.datasets[path]
	if ok {
		rec.Retain()
	}
	return rec, ok
}

func StartFlightServer(addr string) {
	server := flight.NewFlightServer()
	server.RegisterFlightService(NewHalfprecFlightServer())

	if err := server.Init(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to init Flight server")
	}

	log.Info().Str("addr", addr).Msg("Starting halfprec Flight server")
	if err := server.Serve(); err != nil {
		log.Fatal().Err(err).Msg("Flight server failed")
	}
}
