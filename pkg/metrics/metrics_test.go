package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)
	metrics.IncMutation("add")
	metrics.IncMutation("add")
	metrics.IncMutation("")
	metrics.ObserveWrite(nil, 250*time.Millisecond)
	metrics.ObserveWrite(errors.New("disk full"), 10*time.Millisecond)
	metrics.SetItems(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "unknown"); err != nil {
		t.Fatalf("fetch unknown op: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_persist_writes_total", "outcome", OutcomeFailure); err != nil {
		t.Fatalf("fetch write failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "cart_persist_write_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Fatalf("expected two observed writes")
	}
	items := findMetricFamily(mfs, "cart_items")
	if items == nil || items.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected cart_items=3")
	}
}

func TestCatalogMetricsExportsLoadsAndCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCatalogMetrics(reg)
	metrics.ObserveFetch("deals", nil)
	metrics.ObserveFetch("stores", errors.New("timeout"))
	metrics.ObserveLoad(false, 40*time.Millisecond)
	metrics.ObserveLoad(true, 90*time.Millisecond)
	metrics.ObserveCache(true)
	metrics.ObserveCache(false)
	metrics.ObserveCache(false)
	metrics.SetDeals(42)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "catalog_loads_total", "result", LoadStale); err != nil {
		t.Fatalf("fetch stale loads: %v", err)
	} else if got != 1 {
		t.Fatalf("expected stale=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "catalog_cache_lookups_total", "result", CacheMiss); err != nil {
		t.Fatalf("fetch cache misses: %v", err)
	} else if got != 2 {
		t.Fatalf("expected miss=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "catalog_fetches_total", "outcome", OutcomeFailure); err != nil {
		t.Fatalf("fetch provider failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "catalog_load_duration_seconds", "", ""); err != nil {
		t.Fatalf("fetch load duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewJobMetrics(reg)
	metrics.Observe("catalog_refresh", nil, 20*time.Millisecond)
	metrics.Observe("catalog_refresh", errors.New("boom"), 5*time.Millisecond)
	metrics.Observe("catalog_refresh", nil, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "scheduled_job_runs_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch job successes: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}
	mf := findMetricFamily(mfs, "scheduled_job_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 3 {
		t.Fatalf("expected three observed runs")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var cart *CartMetrics
	cart.IncMutation("add")
	cart.ObserveWrite(nil, time.Second)
	cart.SetItems(1)

	catalog := NewCatalogMetrics(nil)
	catalog.ObserveFetch("deals", nil)
	catalog.ObserveLoad(false, time.Second)
	catalog.ObserveCache(true)
	catalog.SetDeals(1)

	var jobs *JobMetrics
	jobs.Observe("catalog_refresh", nil, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	if name == "" {
		return true
	}
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
