package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"sea/internal/metrics"
)

func TestDeliveriesCounter(t *testing.T) {
	before := testutil.ToFloat64(metrics.Deliveries.WithLabelValues("email", "sent"))
	metrics.Deliveries.WithLabelValues("email", "sent").Inc()
	after := testutil.ToFloat64(metrics.Deliveries.WithLabelValues("email", "sent"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}
