package middleware

import (
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	// Metrics wraps auth so rejected calls are counted too.
	client := setupInterceptorServer(t, chain(MetricsInterceptor(m), RequireAuth(jwtManager)))

	if _, err := call(client, ""); connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected CodeUnauthenticated, got %v", err)
	}
	if _, err := call(client, ""); err == nil {
		t.Fatal("expected error")
	}

	procedure := api.AuthServiceGetCurrentUserProcedure
	got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(procedure, connect.CodeUnauthenticated.String()))
	if got != 2 {
		t.Errorf("unauthenticated count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(procedure, "ok")); got != 0 {
		t.Errorf("ok count = %v, want 0", got)
	}
}

// chain composes unary interceptors, outermost first.
func chain(interceptors ...connect.UnaryInterceptorFunc) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		for i := len(interceptors) - 1; i >= 0; i-- {
			next = interceptors[i](next)
		}
		return next
	}
}
