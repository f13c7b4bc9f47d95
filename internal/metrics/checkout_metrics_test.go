package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric failed: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCheckoutMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newCheckoutMetricsWithRegisterer(registry)

	m.RecordOrderPlaced()
	m.RecordOrderPlaced()
	m.RecordOrderFailed()
	m.RecordCheckoutDuration(25 * time.Millisecond)

	if got := counterValue(t, m.ordersPlaced); got != 2 {
		t.Fatalf("orders placed: expected 2, got %v", got)
	}
	if got := counterValue(t, m.ordersFailed); got != 1 {
		t.Fatalf("orders failed: expected 1, got %v", got)
	}

	var hist dto.Metric
	if err := m.checkoutDuration.Write(&hist); err != nil {
		t.Fatalf("write histogram failed: %v", err)
	}
	if hist.GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected 1 histogram sample, got %d", hist.GetHistogram().GetSampleCount())
	}
}

func TestCheckoutMetrics_DoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newCheckoutMetricsWithRegisterer(registry)
	second := newCheckoutMetricsWithRegisterer(registry)

	// Повторная регистрация возвращает уже существующие коллекторы.
	first.RecordOrderPlaced()
	second.RecordOrderPlaced()

	if got := counterValue(t, first.ordersPlaced); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}

func TestInventoryMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newInventoryMetricsWithRegisterer(registry)

	m.RecordAdjustment("applied")
	m.RecordAdjustment("clamped")
	m.RecordAdjustment("clamped")

	if got := counterValue(t, m.adjustments.WithLabelValues("clamped")); got != 2 {
		t.Fatalf("clamped adjustments: expected 2, got %v", got)
	}
}
