package vecpress

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting codec metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// bench.PrometheusCollector is one such implementation.
type MetricsCollector interface {
	// RecordEncode is called after each encode operation.
	// inBytes is the raw float32 size of the sequence, outBytes the blob size.
	RecordEncode(method string, inBytes, outBytes int, duration time.Duration, err error)

	// RecordDecode is called after each decode operation.
	RecordDecode(method string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEncode(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDecode(string, time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Counters are aggregated over all methods.
type BasicMetricsCollector struct {
	EncodeCount      atomic.Int64
	EncodeErrors     atomic.Int64
	EncodeTotalNanos atomic.Int64
	BytesIn          atomic.Int64
	BytesOut         atomic.Int64
	DecodeCount      atomic.Int64
	DecodeErrors     atomic.Int64
	DecodeTotalNanos atomic.Int64
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(_ string, inBytes, outBytes int, duration time.Duration, err error) {
	b.EncodeCount.Add(1)
	b.EncodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EncodeErrors.Add(1)
		return
	}
	b.BytesIn.Add(int64(inBytes))
	b.BytesOut.Add(int64(outBytes))
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(_ string, duration time.Duration, err error) {
	b.DecodeCount.Add(1)
	b.DecodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		EncodeCount:    b.EncodeCount.Load(),
		EncodeErrors:   b.EncodeErrors.Load(),
		EncodeAvgNanos: avg(b.EncodeTotalNanos.Load(), b.EncodeCount.Load()),
		BytesIn:        b.BytesIn.Load(),
		BytesOut:       b.BytesOut.Load(),
		DecodeCount:    b.DecodeCount.Load(),
		DecodeErrors:   b.DecodeErrors.Load(),
		DecodeAvgNanos: avg(b.DecodeTotalNanos.Load(), b.DecodeCount.Load()),
	}
	if s.BytesOut > 0 {
		s.Ratio = float64(s.BytesIn) / float64(s.BytesOut)
	}
	return s
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EncodeCount    int64
	EncodeErrors   int64
	EncodeAvgNanos int64
	BytesIn        int64
	BytesOut       int64
	Ratio          float64
	DecodeCount    int64
	DecodeErrors   int64
	DecodeAvgNanos int64
}
