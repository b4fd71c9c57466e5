package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts with status pending. A concurrent identical booking
	// trips the storage uniqueness guard and surfaces as ErrConflict.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// UpdateStatus moves the appointment from one status to another only if
	// it still holds the expected current status, returning pgx.ErrNoRows
	// when the row is missing or has moved on.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Appointment, error)
	UpdateDateTime(ctx context.Context, id uuid.UUID, dateTime time.Time) (*Appointment, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error)
	ListByRange(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) ([]*Appointment, error)
	// HasConflict reports an active booking (pending or approved) for the
	// doctor at exactly t, optionally ignoring one appointment id.
	HasConflict(ctx context.Context, doctorID uuid.UUID, t time.Time, excludeID *uuid.UUID) (bool, error)
	// PatientIDsSeen returns the distinct patients with any appointment
	// against the doctor.
	PatientIDsSeen(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error)
}
