package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(PollCyclesTotal.WithLabelValues("unchanged"))
	RecordCycle("unchanged")
	RecordCycle("unchanged")
	assert.Equal(t, before+2, testutil.ToFloat64(PollCyclesTotal.WithLabelValues("unchanged")))
}

func TestUpdateJobMetrics_CountsFailures(t *testing.T) {
	before := testutil.ToFloat64(ScheduledJobFailuresTotal.WithLabelValues("metrics_test"))
	UpdateJobMetrics("metrics_test", time.Now(), nil)
	UpdateJobMetrics("metrics_test", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(ScheduledJobFailuresTotal.WithLabelValues("metrics_test")))
	assert.Greater(t, testutil.ToFloat64(ScheduledJobLastRun.WithLabelValues("metrics_test")), 0.0)
}

func TestUpdateCacheMetrics(t *testing.T) {
	at := time.Unix(1700000000, 0)
	UpdateCacheMetrics(3, at)
	assert.Equal(t, 3.0, testutil.ToFloat64(CachePairs))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(CacheLastCommit))

	UpdateCacheMetrics(0, time.Time{})
	assert.Equal(t, 0.0, testutil.ToFloat64(CachePairs))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(CacheLastCommit))
}
