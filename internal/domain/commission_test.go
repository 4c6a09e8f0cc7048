package domain

import (
	"testing"
)

func TestComputeCommission(t *testing.T) {
	tests := []struct {
		name           string
		total          float64
		rate           float64
		wantCommission float64
		wantNet        float64
	}{
		{name: "10 percent of 100", total: 100.00, rate: 10, wantCommission: 10.00, wantNet: 90.00},
		{name: "12.5 percent of 80", total: 80.00, rate: 12.5, wantCommission: 10.00, wantNet: 70.00},
		{name: "rounds half up", total: 33.33, rate: 15, wantCommission: 5.00, wantNet: 28.33},
		{name: "zero rate", total: 250.00, rate: 0, wantCommission: 0, wantNet: 250.00},
		{name: "full rate", total: 49.99, rate: 100, wantCommission: 49.99, wantNet: 0},
		{name: "sub-cent rate", total: 10.00, rate: 0.1, wantCommission: 0.01, wantNet: 9.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commission, net := ComputeCommission(tt.total, tt.rate)
			if commission != tt.wantCommission {
				t.Errorf("Expected commission %f, got %f", tt.wantCommission, commission)
			}
			if net != tt.wantNet {
				t.Errorf("Expected net %f, got %f", tt.wantNet, net)
			}
			if commission+net != tt.total {
				t.Errorf("Split does not sum to total: %f + %f != %f", commission, net, tt.total)
			}
		})
	}
}

func TestNewCommission(t *testing.T) {
	payment, err := NewPayment("user-1", "event-1", "vendor-1", 100, "EUR", ProviderStripe, 10, false)
	if err != nil {
		t.Fatalf("NewPayment failed: %v", err)
	}
	if err := payment.MarkPaid(100, "pi_123"); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	c := NewCommission(payment)
	if c.CommissionAmount != 10.00 {
		t.Errorf("Expected commission 10.00, got %f", c.CommissionAmount)
	}
	if c.NetAmount != 90.00 {
		t.Errorf("Expected net 90.00, got %f", c.NetAmount)
	}
	if c.TransferStatus != TransferStatusPending {
		t.Errorf("Expected pending transfer, got %s", c.TransferStatus)
	}
	if c.PaymentID != payment.ID {
		t.Error("Expected commission to reference the payment")
	}
	if c.VendorID != payment.VendorID {
		t.Error("Expected commission to reference the vendor")
	}
}
