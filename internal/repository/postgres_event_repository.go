package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

const eventColumns = `id, vendor_id, name, base_price, max_places, available_places,
	       start_date, cancelled, created_at, updated_at`

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	db *database.PostgresDB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *database.PostgresDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	return scanEvent(r.db.Pool().QueryRow(ctx, query, id))
}

// List retrieves upcoming non-cancelled events, soonest first
func (r *PostgresEventRepository) List(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE cancelled = false AND start_date > now()
		ORDER BY start_date ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// scanEvent scans a single event from a row
func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event

	err := row.Scan(
		&event.ID,
		&event.VendorID,
		&event.Name,
		&event.BasePrice,
		&event.MaxPlaces,
		&event.AvailablePlaces,
		&event.StartDate,
		&event.Cancelled,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	return &event, nil
}
