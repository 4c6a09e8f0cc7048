package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

const refundRequestColumns = `id, reservation_id, payment_id, amount, motif, status,
	       created_at, updated_at`

// PostgresRefundRequestRepository implements RefundRequestRepository using PostgreSQL
type PostgresRefundRequestRepository struct {
	db *database.PostgresDB
}

// NewPostgresRefundRequestRepository creates a new PostgreSQL refund request repository
func NewPostgresRefundRequestRepository(db *database.PostgresDB) *PostgresRefundRequestRepository {
	return &PostgresRefundRequestRepository{db: db}
}

// Create creates a new refund request
func (r *PostgresRefundRequestRepository) Create(ctx context.Context, request *domain.RefundRequest) error {
	query := `
		INSERT INTO refund_requests (
			id, reservation_id, payment_id, amount, motif, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	_, err := r.db.Pool().Exec(ctx, query,
		request.ID,
		request.ReservationID,
		request.PaymentID,
		request.Amount,
		request.Motif,
		string(request.Status),
		request.CreatedAt,
		request.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create refund request: %w", err)
	}

	return nil
}

// GetByID retrieves a refund request by its ID
func (r *PostgresRefundRequestRepository) GetByID(ctx context.Context, id string) (*domain.RefundRequest, error) {
	query := `SELECT ` + refundRequestColumns + ` FROM refund_requests WHERE id = $1`

	return scanRefundRequest(r.db.Pool().QueryRow(ctx, query, id))
}

// GetByReservationID retrieves the refund requests opened on a reservation
func (r *PostgresRefundRequestRepository) GetByReservationID(ctx context.Context, reservationID string) ([]*domain.RefundRequest, error) {
	query := `SELECT ` + refundRequestColumns + `
		FROM refund_requests
		WHERE reservation_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Pool().Query(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query refund requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.RefundRequest
	for rows.Next() {
		request, err := scanRefundRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate refund requests: %w", err)
	}

	return requests, nil
}

// scanRefundRequest scans a single refund request from a row
func scanRefundRequest(row pgx.Row) (*domain.RefundRequest, error) {
	var request domain.RefundRequest
	var status string

	err := row.Scan(
		&request.ID,
		&request.ReservationID,
		&request.PaymentID,
		&request.Amount,
		&request.Motif,
		&status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefundRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan refund request: %w", err)
	}

	request.Status = domain.RefundStatus(status)

	return &request, nil
}
