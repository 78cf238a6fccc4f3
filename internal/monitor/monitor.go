// Package monitor periodically logs process memory and generation progress.
// It only observes; nothing in the pipeline depends on it.
package monitor

import (
	"context"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const (
	heapMetric  = "/memory/classes/heap/objects:bytes"
	totalMetric = "/memory/classes/total:bytes"
)

// Sample is one observation.
type Sample struct {
	HeapBytes    uint64 // live heap objects
	RuntimeBytes uint64 // all memory mapped by the Go runtime
	MaxRSSBytes  uint64 // peak resident set size, 0 if unavailable
	Written      int64
}

// Take reads the current memory counters. written may be nil.
func Take(written func() int64) Sample {
	samples := []metrics.Sample{{Name: heapMetric}, {Name: totalMetric}}
	metrics.Read(samples)

	s := Sample{MaxRSSBytes: maxRSS()}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.HeapBytes = samples[0].Value.Uint64()
	}
	if samples[1].Value.Kind() == metrics.KindUint64 {
		s.RuntimeBytes = samples[1].Value.Uint64()
	}
	if written != nil {
		s.Written = written()
	}
	return s
}

// Run logs a Sample every interval until ctx is done, then logs one final
// sample. A non-positive interval disables monitoring.
func Run(ctx context.Context, log *zap.Logger, interval time.Duration, written func() int64) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logSample(log, Take(written))
			return
		case <-ticker.C:
			logSample(log, Take(written))
		}
	}
}

func logSample(log *zap.Logger, s Sample) {
	log.Info("memory",
		zap.String("heap", humanize.IBytes(s.HeapBytes)),
		zap.String("runtime", humanize.IBytes(s.RuntimeBytes)),
		zap.String("max_rss", humanize.IBytes(s.MaxRSSBytes)),
		zap.String("written", humanize.IBytes(uint64(max(s.Written, 0)))),
	)
}
