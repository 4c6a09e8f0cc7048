package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// MockGateway implements ProviderGateway for testing and local development.
// Sessions live in memory; Capture and Refund act on them.
type MockGateway struct {
	provider domain.Provider
	sessions sync.Map
	refunds  sync.Map

	mu          sync.RWMutex
	failCreate  bool
	failCapture bool
	failRefund  bool
}

type mockSession struct {
	ProviderRef string
	Amount      float64
	Currency    string
	Captured    bool
	ChargeRef   string
}

// NewMockGateway creates a new mock gateway impersonating the given provider
func NewMockGateway(provider domain.Provider) *MockGateway {
	return &MockGateway{provider: provider}
}

// Name returns the impersonated provider
func (g *MockGateway) Name() domain.Provider {
	return g.provider
}

// CreateSession records a fake hosted session
func (g *MockGateway) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if req == nil {
		return nil, fmt.Errorf("session request is required")
	}

	g.mu.RLock()
	fail := g.failCreate
	g.mu.RUnlock()
	if fail {
		return nil, domain.ErrProviderUnavailable
	}

	ref := fmt.Sprintf("mock_%s_%s", g.provider, uuid.New().String()[:8])
	g.sessions.Store(ref, &mockSession{
		ProviderRef: ref,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})

	return &Session{
		ProviderRef: ref,
		ApprovalURL: fmt.Sprintf("https://pay.example.test/%s", ref),
	}, nil
}

// Capture marks a recorded session captured and mints a charge reference
func (g *MockGateway) Capture(ctx context.Context, providerRef string) (*Capture, error) {
	g.mu.RLock()
	fail := g.failCapture
	g.mu.RUnlock()
	if fail {
		return nil, domain.ErrProviderUnavailable
	}

	value, ok := g.sessions.Load(providerRef)
	if !ok {
		return nil, fmt.Errorf("session not found: %s", providerRef)
	}

	session := value.(*mockSession)
	if !session.Captured {
		session.Captured = true
		session.ChargeRef = fmt.Sprintf("mock_charge_%s", uuid.New().String()[:8])
		g.sessions.Store(providerRef, session)
	}

	return &Capture{
		ChargeRef: session.ChargeRef,
		Amount:    session.Amount,
		Currency:  session.Currency,
	}, nil
}

// Refund records a refund against a charge reference
func (g *MockGateway) Refund(ctx context.Context, chargeRef string, amount float64, currency string) error {
	g.mu.RLock()
	fail := g.failRefund
	g.mu.RUnlock()
	if fail {
		return domain.ErrProviderUnavailable
	}

	if chargeRef == "" {
		return fmt.Errorf("charge reference is required")
	}
	g.refunds.Store(chargeRef, amount)

	return nil
}

// Refunded reports whether a charge has been refunded and for how much
func (g *MockGateway) Refunded(chargeRef string) (float64, bool) {
	value, ok := g.refunds.Load(chargeRef)
	if !ok {
		return 0, false
	}
	return value.(float64), true
}

// SetFailCreate makes CreateSession fail (for testing)
func (g *MockGateway) SetFailCreate(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failCreate = fail
}

// SetFailCapture makes Capture fail (for testing)
func (g *MockGateway) SetFailCapture(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failCapture = fail
}

// SetFailRefund makes Refund fail (for testing)
func (g *MockGateway) SetFailRefund(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failRefund = fail
}
