package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRecordsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(reg)

	m.Observe("GET", "/offers", 200, 25*time.Millisecond)
	m.Observe("GET", "/offers", 200, 35*time.Millisecond)
	m.Observe("POST", "/offer/publish", 401, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	counter, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("expected http_requests_total family")
	}
	var offersCount float64
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["route"] == "/offers" && labels["status"] == "200" {
			offersCount = metric.GetCounter().GetValue()
		}
	}
	if offersCount != 2 {
		t.Fatalf("expected 2 offers requests, got %v", offersCount)
	}

	hist, ok := byName["http_request_duration_seconds"]
	if !ok {
		t.Fatal("expected http_request_duration_seconds family")
	}
	var sampleCount uint64
	for _, metric := range hist.GetMetric() {
		sampleCount += metric.GetHistogram().GetSampleCount()
	}
	if sampleCount != 3 {
		t.Fatalf("expected 3 histogram samples, got %d", sampleCount)
	}
}

func TestNilRegistererAndReceiverAreNoOps(t *testing.T) {
	m := NewRequestMetrics(nil)
	m.Observe("GET", "/offers", 200, time.Millisecond)

	var nilMetrics *RequestMetrics
	nilMetrics.Observe("GET", "/offers", 200, time.Millisecond)
}
