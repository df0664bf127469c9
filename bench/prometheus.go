package bench

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements vecpress.MetricsCollector on a private
// registry and exposes report results as gauges.
type PrometheusCollector struct {
	registry *prometheus.Registry

	opLatency    *prometheus.HistogramVec
	bytesIn      *prometheus.CounterVec
	bytesOut     *prometheus.CounterVec
	ratio        *prometheus.GaugeVec
	accuracyLoss *prometheus.GaugeVec
	similarity   *prometheus.GaugeVec
}

// NewPrometheusCollector registers the vecpress metrics on a new registry.
func NewPrometheusCollector() *PrometheusCollector {
	p := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vecpress_operation_latency_seconds",
			Help:    "Latency of encode and decode operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "method", "status"}),
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecpress_encode_input_bytes_total",
			Help: "Raw float32 bytes passed to encode",
		}, []string{"method"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecpress_encode_output_bytes_total",
			Help: "Blob bytes produced by encode",
		}, []string{"method"}),
		ratio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecpress_compression_ratio",
			Help: "Compression ratio of the last run",
		}, []string{"dataset", "method"}),
		accuracyLoss: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecpress_accuracy_loss_percent",
			Help: "Mean relative reconstruction error of the last run",
		}, []string{"dataset", "method"}),
		similarity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecpress_consecutive_similarity",
			Help: "Mean cosine similarity of consecutive vectors",
		}, []string{"dataset"}),
	}

	p.registry.MustRegister(
		p.opLatency,
		p.bytesIn,
		p.bytesOut,
		p.ratio,
		p.accuracyLoss,
		p.similarity,
	)
	return p
}

// Registry returns the registry, e.g. for promhttp.HandlerFor.
func (p *PrometheusCollector) Registry() *prometheus.Registry { return p.registry }

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordEncode implements vecpress.MetricsCollector.
func (p *PrometheusCollector) RecordEncode(method string, inBytes, outBytes int, d time.Duration, err error) {
	p.opLatency.WithLabelValues("encode", method, status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	p.bytesIn.WithLabelValues(method).Add(float64(inBytes))
	p.bytesOut.WithLabelValues(method).Add(float64(outBytes))
}

// RecordDecode implements vecpress.MetricsCollector.
func (p *PrometheusCollector) RecordDecode(method string, d time.Duration, err error) {
	p.opLatency.WithLabelValues("decode", method, status(err)).Observe(d.Seconds())
}

// ObserveReport sets the per-dataset gauges from a report.
func (p *PrometheusCollector) ObserveReport(r *Report) {
	for _, d := range r.Datasets {
		p.similarity.WithLabelValues(d.Name).Set(d.ConsecutiveSimilarity)
		for _, res := range d.Results {
			if res.Failed() {
				continue
			}
			p.ratio.WithLabelValues(d.Name, res.Method).Set(res.Ratio)
			p.accuracyLoss.WithLabelValues(d.Name, res.Method).Set(res.AccuracyLoss)
		}
	}
}

// WriteTextfile writes the registry in the text exposition format to path,
// for the node_exporter textfile collector.
func (p *PrometheusCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}
