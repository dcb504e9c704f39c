package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/internal/middleware"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// Services bundles every RPC service the server exposes.
type Services struct {
	Auth        *AuthService
	Groups      *GroupService
	Expenses    *ExpenseService
	Settlements *SettlementService
}

// Mount registers the services on mux. Every service except AuthService
// requires a valid token. Interceptors run metrics, then logging, then auth.
func (s *Services) Mount(mux *http.ServeMux, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) {
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(logger),
		middleware.OptionalAuth(jwtManager),
	)
	private := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(jwtManager),
	)

	mux.Handle(api.NewAuthServiceHandler(s.Auth, public))
	mux.Handle(api.NewGroupServiceHandler(s.Groups, private))
	mux.Handle(api.NewExpenseServiceHandler(s.Expenses, private))
	mux.Handle(api.NewSettlementServiceHandler(s.Settlements, private))
}
