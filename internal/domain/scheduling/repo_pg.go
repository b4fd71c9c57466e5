package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrConflict is returned by Create when the active-booking unique index
// rejects the insert.
var ErrConflict = errors.New("appointment slot already booked")

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, doctor_id, patient_id, date_time, status, reason, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.DateTime, &a.Status,
		&a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.Status = StatusPending
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, date_time, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.DoctorID, a.PatientID, a.DateTime, a.Status, a.Reason, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointment SET status=$3, updated_at=NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+apptCols, id, from, to))
}

func (r *repoPG) UpdateDateTime(ctx context.Context, id uuid.UUID, dateTime time.Time) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointment SET date_time=$2, updated_at=NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, dateTime))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}
	return a, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment ORDER BY date_time LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAppointments(rows)
	return items, total, err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE doctor_id = $1 ORDER BY date_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *repoPG) ListByRange(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) ([]*Appointment, error) {
	var rows pgx.Rows
	var err error
	if doctorID != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+apptCols+` FROM appointment
			WHERE date_time >= $1 AND date_time <= $2 AND doctor_id = $3
			ORDER BY date_time`, start, end, *doctorID)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+apptCols+` FROM appointment
			WHERE date_time >= $1 AND date_time <= $2
			ORDER BY date_time`, start, end)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *repoPG) HasConflict(ctx context.Context, doctorID uuid.UUID, t time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = r.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointment
				WHERE doctor_id = $1 AND date_time = $2
					AND status IN ('pending','approved') AND id <> $3
			)`, doctorID, t, *excludeID).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointment
				WHERE doctor_id = $1 AND date_time = $2
					AND status IN ('pending','approved')
			)`, doctorID, t).Scan(&exists)
	}
	return exists, err
}

func (r *repoPG) PatientIDsSeen(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT patient_id FROM appointment WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
