package checkout

import (
	"context"
	"log/slog"
	"strings"

	"canal-panel/internal/stories/dashboard"
)

// Provider creates a hosted checkout for one recorded transaction.
type Provider interface {
	CreateCheckout(ctx context.Context, req dashboard.CheckoutRequest) (string, error)
}

// Router picks the provider by payment method. Methods without a provider get the default
// checkout link built from the transaction id.
type Router struct {
	providers  map[string]Provider
	defaultURL string
	logger     *slog.Logger
}

func NewRouter(defaultURL string, logger *slog.Logger) *Router {
	if !strings.HasSuffix(defaultURL, "/") {
		defaultURL += "/"
	}
	return &Router{
		providers:  map[string]Provider{},
		defaultURL: defaultURL,
		logger:     logger,
	}
}

// Handle registers p for the given payment methods.
func (r *Router) Handle(p Provider, methods ...string) *Router {
	for _, m := range methods {
		r.providers[normalizeMethod(m)] = p
	}
	return r
}

func (r *Router) CreateCheckout(ctx context.Context, req dashboard.CheckoutRequest) (string, error) {
	p, ok := r.providers[normalizeMethod(req.Method)]
	if !ok {
		r.logger.Debug("No checkout provider for method, using default link", "method", req.Method)
		return r.DefaultURL(req.TransactionID), nil
	}
	return p.CreateCheckout(ctx, req)
}

func (r *Router) DefaultURL(transactionID string) string {
	return r.defaultURL + transactionID
}

func normalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}
