package gateway

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// Registry resolves the gateway for a payment's provider
type Registry struct {
	gateways map[domain.Provider]ProviderGateway
}

// NewRegistry creates a registry from the given gateways
func NewRegistry(gateways ...ProviderGateway) *Registry {
	r := &Registry{gateways: make(map[domain.Provider]ProviderGateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

// Get returns the gateway for a provider
func (r *Registry) Get(provider domain.Provider) (ProviderGateway, error) {
	g, ok := r.gateways[provider]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return g, nil
}

// RegistryConfig holds the credentials for every live gateway
type RegistryConfig struct {
	Stripe *StripeGatewayConfig
	PayPal *PayPalGatewayConfig

	// Mock replaces both live gateways with in-memory ones
	Mock bool
}

// NewRegistryFromConfig builds the registry the server wires at startup
func NewRegistryFromConfig(ctx context.Context, cfg *RegistryConfig) (*Registry, error) {
	if cfg.Mock {
		return NewRegistry(
			NewMockGateway(domain.ProviderStripe),
			NewMockGateway(domain.ProviderPayPal),
		), nil
	}

	stripeGW, err := NewStripeGateway(cfg.Stripe)
	if err != nil {
		return nil, err
	}
	paypalGW, err := NewPayPalGateway(ctx, cfg.PayPal)
	if err != nil {
		return nil, err
	}

	return NewRegistry(stripeGW, paypalGW), nil
}
