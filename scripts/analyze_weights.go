//go:build ignore

// Reports how well a raw little-endian float32 dump survives narrowing to
// binary16.
package main

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"math"
	"os"

	"github.com/23skdu/longbow-halfprec/half"
	"github.com/23skdu/longbow-halfprec/internal/codec"
)

type WeightStats struct {
	Min             float32      `json:"min"`
	Max             float32      `json:"max"`
	AbsMax          float32      `json:"abs_max"`
	OutOfRangeCount int          `json:"out_of_range_count"`
	OutOfRangeRatio float64      `json:"out_of_range_ratio"`
	Report          codec.Report `json:"report"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s weights.f32", os.Args[0])
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read weights: %v", err)
	}
	if len(data)%4 != 0 {
		log.Fatalf("File size %d is not a multiple of 4", len(data))
	}

	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analyzeWeight(values)); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

func analyzeWeight(data []float32) WeightStats {
	stats := WeightStats{
		Min: math.MaxFloat32,
		Max: -math.MaxFloat32,
	}
	minNormal := half.MinPositive.Float32()
	maxFinite := half.Max.Float32()

	for _, v := range data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			continue
		}
		stats.Min = min(stats.Min, v)
		stats.Max = max(stats.Max, v)

		absV := float32(math.Abs(float64(v)))
		stats.AbsMax = max(stats.AbsMax, absV)
		if absV > maxFinite || (absV < minNormal && absV > 0) {
			stats.OutOfRangeCount++
		}
	}

	_, stats.Report = codec.Analyze(data)
	if len(data) > 0 {
		stats.OutOfRangeRatio = float64(stats.OutOfRangeCount) / float64(len(data))
	}
	return stats
}
