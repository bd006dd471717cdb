package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func TestJobMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.ObserveDuration("cleanup", 250*time.Millisecond)
	m.IncSuccess("cleanup")
	m.IncSuccess("cleanup")
	m.IncFailure("")
	m.AddPurged("cleanup", 3)
	m.AddPurged("cleanup", 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	success := findFamily(t, families, "gymetra_job_success_total")
	require.Len(t, success.GetMetric(), 1)
	assert.Equal(t, "cleanup", labelValue(success.GetMetric()[0], "job"))
	assert.Equal(t, 2.0, success.GetMetric()[0].GetCounter().GetValue())

	failure := findFamily(t, families, "gymetra_job_failure_total")
	require.Len(t, failure.GetMetric(), 1)
	assert.Equal(t, "unknown", labelValue(failure.GetMetric()[0], "job"))

	purged := findFamily(t, families, "gymetra_job_rows_purged_total")
	assert.Equal(t, 3.0, purged.GetMetric()[0].GetCounter().GetValue())

	duration := findFamily(t, families, "gymetra_job_duration_seconds")
	assert.Equal(t, uint64(1), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestJobMetrics_NilSafe(t *testing.T) {
	var nilMetrics *JobMetrics
	assert.NotPanics(t, func() {
		nilMetrics.IncSuccess("x")
		nilMetrics.IncFailure("x")
		nilMetrics.ObserveDuration("x", time.Second)
		nilMetrics.AddPurged("x", 1)
	})

	noop := NewJobMetrics(nil)
	assert.NotPanics(t, func() { noop.IncSuccess("x") })
}
