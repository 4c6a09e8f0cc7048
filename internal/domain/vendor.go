package domain

import "time"

// Vendor is the read-only directory entry the engine consumes for a
// professional account: the live commission rate and the payable-account
// linkage per provider. Account linking and subscription management happen
// outside the engine.
type Vendor struct {
	ID                  string    `json:"id"`
	CommissionRate      float64   `json:"commission_rate"`
	StripeAccountID     string    `json:"stripe_account_id,omitempty"`
	PayPalMerchantID    string    `json:"paypal_merchant_id,omitempty"`
	DirectPayoutEnabled bool      `json:"direct_payout_enabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// HasDirectPayout reports whether funds for the given provider can be routed
// straight to the vendor's sub-account. Requires both the qualifying
// subscription flag and a linked account with that provider.
func (v *Vendor) HasDirectPayout(provider Provider) bool {
	if !v.DirectPayoutEnabled {
		return false
	}
	switch provider {
	case ProviderStripe:
		return v.StripeAccountID != ""
	case ProviderPayPal:
		return v.PayPalMerchantID != ""
	default:
		return false
	}
}

// PayoutAccount returns the provider-specific payable account reference
func (v *Vendor) PayoutAccount(provider Provider) string {
	switch provider {
	case ProviderStripe:
		return v.StripeAccountID
	case ProviderPayPal:
		return v.PayPalMerchantID
	default:
		return ""
	}
}
