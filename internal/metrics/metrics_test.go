package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RPCRequests.WithLabelValues("/expensex.v1.GroupService/GetGroup", "ok").Inc()
	m.CacheLookups.WithLabelValues("hit").Add(2)

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("/expensex.v1.GroupService/GetGroup", "ok")); got != 1 {
		t.Errorf("rpc_requests_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 2 {
		t.Errorf("cache lookups = %v, want 2", got)
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	New(reg)
}
