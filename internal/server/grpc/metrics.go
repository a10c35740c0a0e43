package grpc

import (
	"context"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "mapkeeper"

// Metrics holds the mirror's request collectors.
type Metrics struct {
	// RequestsTotal counts finished calls by method name and status code.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration observes handler latency by method name.
	RequestDuration *prometheus.HistogramVec
	// SnapshotBytes observes the size of accepted pushes.
	SnapshotBytes prometheus.Histogram
}

// NewMetrics registers the mirror collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "requests_total",
				Help:      "Total number of mirror gRPC calls, by method and status code.",
			},
			[]string{"method", "code"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "request_duration_seconds",
				Help:      "Duration of mirror gRPC calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		SnapshotBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "snapshot_bytes",
				Help:      "Size of accepted snapshot documents.",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
	}
}

func (m *Metrics) interceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	method := path.Base(info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	m.RequestsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
	if err == nil {
		if b, ok := req.(interface{ GetValue() []byte }); ok {
			m.SnapshotBytes.Observe(float64(len(b.GetValue())))
		}
	}

	return resp, err
}
