package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a domain.RegistrationRepository implemented with Postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// Register performs the status-aware upsert in one statement. The partial
// unique index on (event_id, student_id) makes concurrent attempts serialize
// on the insert; the DO UPDATE branch only fires for cancelled records, so an
// active registration yields no row and maps to ErrAlreadyRegistered.
func (r *registrationRepository) Register(ctx context.Context, reg *domain.Registration) (bool, error) {
	query := `
		INSERT INTO registrations (event_id, student_id, status, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, student_id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		WHERE registrations.status = $6
		RETURNING id, registered_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.StudentID, domain.RegistrationStatusRegistered,
		reg.RegisteredAt, reg.UpdatedAt, domain.RegistrationStatusCancelled,
	).Scan(&reg.ID, &reg.RegisteredAt, &inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrAlreadyRegistered
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, domain.ErrAlreadyRegistered
		}
		return false, err
	}
	reg.Status = domain.RegistrationStatusRegistered
	return inserted, nil
}

const registrationColumns = `id, event_id, student_id, status, registered_at, updated_at`

func scanRegistration(row interface{ Scan(dest ...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.Status, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND student_id = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByStudentID(ctx context.Context, studentID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE student_id = $1
		ORDER BY registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RegistrationWithStudent, error) {
	query := `
		SELECT r.id, r.event_id, r.student_id, r.status, r.registered_at, r.updated_at,
		       u.id, u.name, u.email, u.photo
		FROM registrations r
		JOIN users u ON u.id = r.student_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.RegistrationWithStudent
	for rows.Next() {
		reg := &domain.Registration{}
		student := &domain.StudentSummary{}
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.StudentID, &reg.Status, &reg.RegisteredAt, &reg.UpdatedAt,
			&student.ID, &student.Name, &student.Email, &student.Photo,
		); err != nil {
			return nil, err
		}
		items = append(items, &domain.RegistrationWithStudent{Registration: reg, Student: student})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.RegistrationWithStudent{}
	}
	return items, nil
}

func (r *registrationRepository) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id, status, updatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}
