package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/mapkeeper/internal/mirrorrpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	info := &grpc.UnaryServerInfo{FullMethod: mirrorrpc.PushSnapshotMethod}
	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }
	denied := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	_, err := m.interceptor(context.Background(), wrapperspb.Bytes(make([]byte, 2048)), info, ok)
	require.NoError(t, err)
	_, err = m.interceptor(context.Background(), wrapperspb.Bytes(nil), info, denied)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("PushSnapshot", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("PushSnapshot", "Unauthenticated")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SnapshotBytes))

	n, err := testutil.GatherAndCount(reg, "mapkeeper_mirror_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
