package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
)

// MetricsInterceptor records a request count and latency for every RPC.
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.RPCRequests.WithLabelValues(procedure, code).Inc()
			m.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
