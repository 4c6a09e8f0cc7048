package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupTestDB(t *testing.T) (*database.PostgresDB, func()) {
	ctx := context.Background()

	cfg := &database.PostgresConfig{
		Host:            getEnv("POSTGRES_HOST", "localhost"),
		Port:            5432,
		User:            getEnv("POSTGRES_USER", "postgres"),
		Password:        getEnv("POSTGRES_PASSWORD", ""),
		Database:        getEnv("POSTGRES_DB", "reservations_test"),
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 1 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
	}

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Schema comes from migrations/001_init.sql, applied out of band

	cleanup := func() {
		ctx := context.Background()
		db.Pool().Exec(ctx, "DELETE FROM refund_requests WHERE motif LIKE 'test-recon-%' OR motif = $1", domain.MotifEventCancelled)
		db.Pool().Exec(ctx, "DELETE FROM commissions WHERE vendor_id LIKE 'test-recon-%'")
		db.Pool().Exec(ctx, "DELETE FROM reservations WHERE user_id LIKE 'test-recon-%'")
		db.Pool().Exec(ctx, "DELETE FROM payments WHERE user_id LIKE 'test-recon-%'")
		db.Pool().Exec(ctx, "DELETE FROM events WHERE vendor_id LIKE 'test-recon-%'")
		db.Pool().Exec(ctx, "DELETE FROM vendors WHERE id LIKE 'test-recon-%'")
		db.Close()
	}

	return db, cleanup
}

type reconFixture struct {
	vendorID    string
	eventID     string
	payment     *domain.Payment
	reservation *domain.Reservation
}

// seedHold writes a vendor, an event with the given availability and one
// pending hold of the given quantity
func seedHold(t *testing.T, db *database.PostgresDB, available, quantity int) *reconFixture {
	ctx := context.Background()

	vendorID := "test-recon-vendor-" + uuid.New().String()[:8]
	_, err := db.Pool().Exec(ctx, `
		INSERT INTO vendors (id, commission_rate, direct_payout_enabled, created_at, updated_at)
		VALUES ($1, 10.0, false, now(), now())`,
		vendorID,
	)
	if err != nil {
		t.Fatalf("Failed to seed vendor: %v", err)
	}

	eventID := uuid.New().String()
	_, err = db.Pool().Exec(ctx, `
		INSERT INTO events (id, vendor_id, name, base_price, max_places, available_places, start_date, cancelled, created_at, updated_at)
		VALUES ($1, $2, 'Atelier test', 45.00, 50, $3, now() + interval '3 days', false, now(), now())`,
		eventID, vendorID, available,
	)
	if err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}

	userID := "test-recon-user-" + uuid.New().String()[:8]
	payment, err := domain.NewPayment(userID, eventID, vendorID, 45.00*float64(quantity), "EUR", domain.ProviderStripe, 10.0, false)
	if err != nil {
		t.Fatalf("Failed to build payment: %v", err)
	}
	reservation, err := domain.NewReservation(userID, eventID, payment.ID, quantity)
	if err != nil {
		t.Fatalf("Failed to build reservation: %v", err)
	}

	store := NewPostgresCheckoutStore(db)
	if err := store.CreateHold(ctx, payment, reservation); err != nil {
		t.Fatalf("Failed to create hold: %v", err)
	}

	ref := "cs_test_" + uuid.New().String()[:8]
	payments := NewPostgresPaymentRepository(db)
	if err := payments.AttachProviderRef(ctx, payment.ID, ref); err != nil {
		t.Fatalf("Failed to attach provider ref: %v", err)
	}
	payment.SetProviderRef(ref)

	return &reconFixture{
		vendorID:    vendorID,
		eventID:     eventID,
		payment:     payment,
		reservation: reservation,
	}
}

// seedExtraHold writes a second pending hold by a different user on an
// already-seeded event
func seedExtraHold(t *testing.T, db *database.PostgresDB, f *reconFixture, quantity int) *reconFixture {
	ctx := context.Background()

	userID := "test-recon-user-" + uuid.New().String()[:8]
	payment, err := domain.NewPayment(userID, f.eventID, f.vendorID, 45.00*float64(quantity), "EUR", domain.ProviderStripe, 10.0, false)
	if err != nil {
		t.Fatalf("Failed to build payment: %v", err)
	}
	reservation, err := domain.NewReservation(userID, f.eventID, payment.ID, quantity)
	if err != nil {
		t.Fatalf("Failed to build reservation: %v", err)
	}

	store := NewPostgresCheckoutStore(db)
	if err := store.CreateHold(ctx, payment, reservation); err != nil {
		t.Fatalf("Failed to create second hold: %v", err)
	}

	ref := "cs_test_" + uuid.New().String()[:8]
	payments := NewPostgresPaymentRepository(db)
	if err := payments.AttachProviderRef(ctx, payment.ID, ref); err != nil {
		t.Fatalf("Failed to attach provider ref: %v", err)
	}
	payment.SetProviderRef(ref)

	return &reconFixture{
		vendorID:    f.vendorID,
		eventID:     f.eventID,
		payment:     payment,
		reservation: reservation,
	}
}

func eventAvailability(t *testing.T, db *database.PostgresDB, eventID string) int {
	var available int
	err := db.Pool().QueryRow(context.Background(),
		"SELECT available_places FROM events WHERE id = $1", eventID).Scan(&available)
	if err != nil {
		t.Fatalf("Failed to read availability: %v", err)
	}
	return available
}

func TestConfirmPaid_DecrementsInventoryOnce_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	f := seedHold(t, db, 10, 3)
	store := NewPostgresReconciliationStore(db)

	result, err := store.ConfirmPaid(ctx, domain.ProviderStripe, f.payment.ProviderRef, 135.00, "pi_test_001")
	if err != nil {
		t.Fatalf("Failed to confirm payment: %v", err)
	}
	if result.Outcome != OutcomeConfirmed {
		t.Fatalf("Expected outcome 'confirmed', got '%s'", result.Outcome)
	}
	if result.Payment.Status != domain.PaymentStatusPaid {
		t.Errorf("Expected status 'paid', got '%s'", result.Payment.Status)
	}
	if result.Commission == nil {
		t.Fatal("Expected a commission row for a platform-collect payment")
	}
	if result.Commission.CommissionAmount != 13.50 {
		t.Errorf("Expected commission 13.50, got %.2f", result.Commission.CommissionAmount)
	}
	if got := eventAvailability(t, db, f.eventID); got != 7 {
		t.Errorf("Expected 7 places left, got %d", got)
	}

	// Redelivery of the same completion changes nothing
	replay, err := store.ConfirmPaid(ctx, domain.ProviderStripe, f.payment.ProviderRef, 135.00, "pi_test_001")
	if err != nil {
		t.Fatalf("Failed to settle replay: %v", err)
	}
	if replay.Outcome != OutcomeAlreadyPaid {
		t.Errorf("Expected outcome 'already_paid', got '%s'", replay.Outcome)
	}
	if got := eventAvailability(t, db, f.eventID); got != 7 {
		t.Errorf("Expected availability unchanged at 7, got %d", got)
	}
}

func TestConfirmPaid_CompensatesWhenSoldOut_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	f := seedHold(t, db, 1, 3)
	store := NewPostgresReconciliationStore(db)

	result, err := store.ConfirmPaid(ctx, domain.ProviderStripe, f.payment.ProviderRef, 135.00, "pi_test_002")
	if err != nil {
		t.Fatalf("Failed to settle: %v", err)
	}
	if result.Outcome != OutcomeCompensated {
		t.Fatalf("Expected outcome 'compensated', got '%s'", result.Outcome)
	}
	if result.Payment.Status != domain.PaymentStatusRefunded {
		t.Errorf("Expected status 'refunded', got '%s'", result.Payment.Status)
	}
	if got := eventAvailability(t, db, f.eventID); got != 1 {
		t.Errorf("Expected availability unchanged at 1, got %d", got)
	}

	reservations := NewPostgresReservationRepository(db)
	if _, err := reservations.GetByID(ctx, f.reservation.ID); err != domain.ErrReservationNotFound {
		t.Errorf("Expected reservation gone, got err=%v", err)
	}
}

func TestConfirmPaid_ConcurrentLastPlace_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// One place, two captured payments racing for it. The row locks must
	// let exactly one through and compensate the other.
	first := seedHold(t, db, 1, 1)
	second := seedExtraHold(t, db, first, 1)
	store := NewPostgresReconciliationStore(db)

	results := make([]*ConfirmResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, f := range []*reconFixture{first, second} {
		wg.Add(1)
		go func(i int, f *reconFixture) {
			defer wg.Done()
			results[i], errs[i] = store.ConfirmPaid(context.Background(),
				domain.ProviderStripe, f.payment.ProviderRef, 45.00, "pi_test_race")
		}(i, f)
	}
	wg.Wait()

	counts := map[ConfirmOutcome]int{}
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("Confirmation %d failed: %v", i, errs[i])
		}
		counts[results[i].Outcome]++
	}
	if counts[OutcomeConfirmed] != 1 {
		t.Errorf("Expected exactly 1 confirmed settlement, got %d (%v)", counts[OutcomeConfirmed], counts)
	}
	if counts[OutcomeCompensated] != 1 {
		t.Errorf("Expected exactly 1 compensated settlement, got %d (%v)", counts[OutcomeCompensated], counts)
	}
	if got := eventAvailability(t, db, first.eventID); got != 0 {
		t.Errorf("Expected 0 places left, got %d", got)
	}
}

func TestCancelEvent_ConcurrentWithConfirm_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// A vendor cancellation and a webhook confirmation for the same event
	// must serialize on the payment rows, never deadlock.
	f := seedHold(t, db, 10, 2)
	store := NewPostgresReconciliationStore(db)

	var (
		wg            sync.WaitGroup
		confirmResult *ConfirmResult
		confirmErr    error
		cancelResult  *CancelEventResult
		cancelErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		confirmResult, confirmErr = store.ConfirmPaid(context.Background(),
			domain.ProviderStripe, f.payment.ProviderRef, 90.00, "pi_test_race_cancel")
	}()
	go func() {
		defer wg.Done()
		cancelResult, cancelErr = store.CancelEvent(context.Background(), f.eventID, f.vendorID)
	}()
	wg.Wait()

	if confirmErr != nil {
		t.Fatalf("Confirmation failed: %v", confirmErr)
	}
	if cancelErr != nil {
		t.Fatalf("Cancellation failed: %v", cancelErr)
	}

	switch confirmResult.Outcome {
	case OutcomeConfirmed:
		// Webhook won the race; cancellation then refunds the paid reservation
		if cancelResult.RefundRequestsOpen != 1 {
			t.Errorf("Expected 1 refund request after confirmed settlement, got %d", cancelResult.RefundRequestsOpen)
		}
	case OutcomeConflict:
		// Cancellation won; the pending hold was voided first
		if cancelResult.PendingHoldsVoided != 1 {
			t.Errorf("Expected 1 voided hold after cancellation won, got %d", cancelResult.PendingHoldsVoided)
		}
	default:
		t.Errorf("Unexpected settlement outcome '%s'", confirmResult.Outcome)
	}
}

func TestExpireHold_LeavesInventoryUntouched_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	f := seedHold(t, db, 10, 2)
	store := NewPostgresReconciliationStore(db)

	result, err := store.ExpireHold(ctx, domain.ProviderStripe, f.payment.ProviderRef)
	if err != nil {
		t.Fatalf("Failed to expire hold: %v", err)
	}
	if result.Payment.Status != domain.PaymentStatusExpired {
		t.Errorf("Expected status 'expired', got '%s'", result.Payment.Status)
	}
	if result.Quantity != 2 {
		t.Errorf("Expected 2 places released from hold, got %d", result.Quantity)
	}
	if got := eventAvailability(t, db, f.eventID); got != 10 {
		t.Errorf("Expected availability unchanged at 10, got %d", got)
	}
}

func TestCancelEvent_OpensRefundRequests_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	f := seedHold(t, db, 10, 2)
	store := NewPostgresReconciliationStore(db)

	if _, err := store.ConfirmPaid(ctx, domain.ProviderStripe, f.payment.ProviderRef, 90.00, "pi_test_003"); err != nil {
		t.Fatalf("Failed to confirm payment: %v", err)
	}

	result, err := store.CancelEvent(ctx, f.eventID, f.vendorID)
	if err != nil {
		t.Fatalf("Failed to cancel event: %v", err)
	}
	if result.RefundRequestsOpen != 1 {
		t.Errorf("Expected 1 refund request, got %d", result.RefundRequestsOpen)
	}

	refunds := NewPostgresRefundRequestRepository(db)
	requests, err := refunds.GetByReservationID(ctx, f.reservation.ID)
	if err != nil {
		t.Fatalf("Failed to list refund requests: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("Expected 1 refund request row, got %d", len(requests))
	}
	if requests[0].Motif != domain.MotifEventCancelled {
		t.Errorf("Expected motif %q, got %q", domain.MotifEventCancelled, requests[0].Motif)
	}

	// Cancelling twice is a no-op
	again, err := store.CancelEvent(ctx, f.eventID, f.vendorID)
	if err != nil {
		t.Fatalf("Failed on idempotent cancel: %v", err)
	}
	if again.RefundRequestsOpen != 0 || again.PendingHoldsVoided != 0 {
		t.Errorf("Expected zero counts on second cancel, got %+v", again)
	}
}

func TestCancelReservation_ReturnsPlaces_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	f := seedHold(t, db, 10, 4)
	store := NewPostgresReconciliationStore(db)

	if _, err := store.ConfirmPaid(ctx, domain.ProviderStripe, f.payment.ProviderRef, 180.00, "pi_test_004"); err != nil {
		t.Fatalf("Failed to confirm payment: %v", err)
	}
	if got := eventAvailability(t, db, f.eventID); got != 6 {
		t.Fatalf("Expected 6 places after confirmation, got %d", got)
	}

	result, err := store.CancelReservation(ctx, f.reservation.ID, f.reservation.UserID, time.Now())
	if err != nil {
		t.Fatalf("Failed to cancel reservation: %v", err)
	}
	if !result.NeedsProviderRefund {
		t.Error("Expected a provider refund for a paid reservation")
	}
	if result.PlacesReleased != 4 {
		t.Errorf("Expected 4 places released, got %d", result.PlacesReleased)
	}
	if got := eventAvailability(t, db, f.eventID); got != 10 {
		t.Errorf("Expected availability back at 10, got %d", got)
	}
}

func TestCancelReservation_WrongUser_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	db, cleanup := setupTestDB(t)
	defer cleanup()

	f := seedHold(t, db, 10, 1)
	store := NewPostgresReconciliationStore(db)

	_, err := store.CancelReservation(context.Background(), f.reservation.ID, "test-recon-intruder", time.Now())
	if err != domain.ErrNotReservationOwner {
		t.Errorf("Expected ownership error, got %v", err)
	}
}
