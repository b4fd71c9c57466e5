package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/zephyrixtech/clinic-next/internal/domain/doctor"
	"github.com/zephyrixtech/clinic-next/internal/domain/patient"
	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type Service struct {
	appointments Repository
	doctors      doctor.Repository
	patients     patient.Repository
	logger       zerolog.Logger
}

func NewService(appointments Repository, doctors doctor.Repository, patients patient.Repository, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		logger:       logger,
	}
}

// CreateInput carries a booking request.
type CreateInput struct {
	DoctorID  uuid.UUID `json:"doctorId"`
	PatientID uuid.UUID `json:"patientId"`
	DateTime  time.Time `json:"dateTime"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
}

// Create books an appointment: doctor and patient must exist, the slot
// must fall inside the doctor's availability window, and no active booking
// may hold the same instant. The storage unique index backstops the
// conflict check against concurrent racers.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}
	if in.DateTime.IsZero() {
		return nil, apperr.Validation("dateTime is required")
	}
	at := in.DateTime.UTC()

	doc, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient")
		}
		return nil, apperr.Internal(err)
	}

	if !doc.Availability.Covers(at) {
		return nil, apperr.New(apperr.KindAvailabilityViolation,
			"doctor is not available at %s", at.Format(time.RFC3339))
	}

	conflict, err := s.appointments.HasConflict(ctx, in.DoctorID, at, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if conflict {
		return nil, apperr.New(apperr.KindSchedulingConflict,
			"doctor already has an appointment at %s", at.Format(time.RFC3339))
	}

	a := &Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		DateTime:  at,
		Reason:    in.Reason,
		Notes:     in.Notes,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost the race between the advisory check and the insert.
			return nil, apperr.New(apperr.KindSchedulingConflict,
				"doctor already has an appointment at %s", at.Format(time.RFC3339))
		}
		return nil, apperr.Internal(err)
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Time("date_time", a.DateTime).
		Msg("appointment booked")
	return a, nil
}

// UpdateStatus moves an appointment through the lifecycle. Unknown status
// spellings and disallowed transitions are refused.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*Appointment, error) {
	if !ValidStatuses[newStatus] {
		return nil, apperr.New(apperr.KindInvalidStatus, "unknown status %q", newStatus)
	}

	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(cur.Status, newStatus) {
		return nil, apperr.New(apperr.KindInvalidTransition,
			"cannot move appointment from %s to %s", cur.Status, newStatus)
	}

	// The status predicate makes the update a compare-and-swap: a racer
	// that moved the row first makes this one match zero rows.
	updated, err := s.appointments.UpdateStatus(ctx, id, cur.Status, newStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fresh, getErr := s.appointments.GetByID(ctx, id)
			if getErr != nil {
				if errors.Is(getErr, pgx.ErrNoRows) {
					return nil, apperr.NotFound("appointment")
				}
				return nil, apperr.Internal(getErr)
			}
			return nil, apperr.New(apperr.KindInvalidTransition,
				"cannot move appointment from %s to %s", fresh.Status, newStatus)
		}
		return nil, apperr.Internal(err)
	}

	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("from", cur.Status).
		Str("to", newStatus).
		Msg("appointment status changed")
	return updated, nil
}

// Reschedule moves a non-terminal appointment to a new instant, re-running
// the availability and conflict checks with the appointment itself excluded.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDateTime time.Time) (*Appointment, error) {
	if newDateTime.IsZero() {
		return nil, apperr.Validation("dateTime is required")
	}
	at := newDateTime.UTC()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if Terminal(cur.Status) {
		return nil, apperr.New(apperr.KindInvalidTransition,
			"cannot reschedule a %s appointment", cur.Status)
	}

	doc, err := s.doctors.GetByID(ctx, cur.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}
	if !doc.Availability.Covers(at) {
		return nil, apperr.New(apperr.KindAvailabilityViolation,
			"doctor is not available at %s", at.Format(time.RFC3339))
	}

	conflict, err := s.appointments.HasConflict(ctx, cur.DoctorID, at, &id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if conflict {
		return nil, apperr.New(apperr.KindSchedulingConflict,
			"doctor already has an appointment at %s", at.Format(time.RFC3339))
	}

	updated, err := s.appointments.UpdateDateTime(ctx, id, at)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, apperr.New(apperr.KindSchedulingConflict,
				"doctor already has an appointment at %s", at.Format(time.RFC3339))
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("appointment")
		}
		return nil, apperr.Internal(err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("appointment")
		}
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.appointments.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return items, total, nil
}

// ListByRange returns appointments with dateTime in [start, end], both
// ends inclusive, optionally narrowed to one doctor.
func (s *Service) ListByRange(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) ([]*Appointment, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperr.Validation("start and end are required")
	}
	if end.Before(start) {
		return nil, apperr.Validation("end must not precede start")
	}
	items, err := s.appointments.ListByRange(ctx, start.UTC(), end.UTC(), doctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// ListByDoctor returns a doctor's appointments in timestamp order.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}
	items, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// PatientsSeen resolves the distinct patients a doctor has appointments with.
func (s *Service) PatientsSeen(ctx context.Context, doctorID uuid.UUID) ([]*patient.Patient, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}
	ids, err := s.appointments.PatientIDsSeen(ctx, doctorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	patients, err := s.patients.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return patients, nil
}
