package gateway

import (
	"context"

	"github.com/hammamikhairi/platechef/internal/api"
	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Compile-time interface check.
var _ domain.HealthChecker = (*Health)(nil)

// HealthOption configures Health.
type HealthOption func(*Health)

// WithHealthPath overrides the health endpoint.
func WithHealthPath(path string) HealthOption {
	return func(g *Health) {
		if path != "" {
			g.path = path
		}
	}
}

// Health probes the backend.
type Health struct {
	client *api.Client
	path   string
	log    *logger.Logger
}

// NewHealth creates the health probe.
func NewHealth(client *api.Client, log *logger.Logger, opts ...HealthOption) *Health {
	g := &Health{client: client, path: DefaultHealthPath, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Check asks the backend whether it is up.
func (g *Health) Check(ctx context.Context) (*domain.BackendHealth, error) {
	var h domain.BackendHealth
	if err := g.client.GetJSON(ctx, g.path, &h); err != nil {
		return nil, domain.NewOperationError(domain.OpHealth, api.MessageOf(err), err)
	}
	g.log.Debug("health: status=%s gemini=%v", h.Status, h.GeminiConfigured)
	return &h, nil
}
