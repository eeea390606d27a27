package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, organizer_id, category, registration_fee, tags, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Date, event.Location, event.OrganizerID,
		event.Category, event.RegistrationFee, pq.Array(event.Tags), event.Image,
		event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
}

const eventColumns = `
	id, title, description, date, location, organizer_id, category,
	registration_fee, tags, image, winner_first, winner_second, winner_third,
	created_at, updated_at
`

func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	ev := &domain.Event{}
	var tags pq.StringArray
	var first, second, third sql.NullString
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.Date, &ev.Location, &ev.OrganizerID,
		&ev.Category, &ev.RegistrationFee, &tags, &ev.Image,
		&first, &second, &third,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.Tags = []string(tags)
	if first.Valid || second.Valid || third.Valid {
		ev.Winners = &domain.Winners{
			First:  first.String,
			Second: second.String,
			Third:  third.String,
		}
	}
	return ev, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	ev, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetWinners(ctx context.Context, id string, winners *domain.Winners) (*domain.Event, error) {
	query := `
		UPDATE events
		SET winner_first = $2, winner_second = $3, winner_third = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	ev, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, winners.First, winners.Second, winners.Third))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}
