package doctor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func validateAvailability(a Availability) error {
	if len(a.Days) == 0 {
		return apperr.Validation("availability requires at least one day")
	}
	for _, d := range a.Days {
		if !WeekdayNames[d] {
			return apperr.Validation("unknown weekday %q", d)
		}
	}
	start, err := time.Parse("15:04:05", a.StartTime)
	if err != nil {
		return apperr.Validation("startTime must be HH:MM:SS, got %q", a.StartTime)
	}
	end, err := time.Parse("15:04:05", a.EndTime)
	if err != nil {
		return apperr.Validation("endTime must be HH:MM:SS, got %q", a.EndTime)
	}
	if !start.Before(end) {
		return apperr.Validation("startTime must be before endTime")
	}
	return nil
}

func validateDoctor(d *Doctor) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(d.Specialization) == "" {
		return apperr.Validation("specialization is required")
	}
	return validateAvailability(d.Availability)
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if err := validateDoctor(d); err != nil {
		return err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if err := validateDoctor(d); err != nil {
		return err
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("doctor")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	items, total, err := s.doctors.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return items, total, nil
}
