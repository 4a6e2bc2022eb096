package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUpdatePoolGauges(t *testing.T) {
	UpdatePoolGauges("PoolA", 250, 40)
	if got := testutil.ToFloat64(DefaultMetrics.PoolTotalStaked.WithLabelValues("PoolA")); got != 250 {
		t.Errorf("total_staked: got %v, want 250", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.PoolTotalRewards.WithLabelValues("PoolA")); got != 40 {
		t.Errorf("total_rewards: got %v, want 40", got)
	}

	// Gauges track the latest committed state, including back to zero.
	UpdatePoolGauges("PoolA", 0, 0)
	if got := testutil.ToFloat64(DefaultMetrics.PoolTotalStaked.WithLabelValues("PoolA")); got != 0 {
		t.Errorf("total_staked after drain: got %v, want 0", got)
	}
}

func TestRecordPoolEmergency(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.PoolsInEmergency)
	RecordPoolEmergency()
	if got := testutil.ToFloat64(DefaultMetrics.PoolsInEmergency); got != before+1 {
		t.Errorf("emergency_mode_count: got %v, want %v", got, before+1)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "run_atomic"))

	RecordDBQuery("postgres", "run_atomic", 0.01, nil)
	if got := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "run_atomic")); got != before {
		t.Errorf("query_errors after success: got %v, want %v", got, before)
	}

	RecordDBQuery("postgres", "run_atomic", 0.01, errors.New("boom"))
	if got := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "run_atomic")); got != before+1 {
		t.Errorf("query_errors after failure: got %v, want %v", got, before+1)
	}
}
