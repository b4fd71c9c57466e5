package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validatePatient(p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("name is required")
	}
	if p.Age < 0 {
		return apperr.Validation("age must not be negative")
	}
	if !ValidGenders[p.Gender] {
		return apperr.Validation("gender must be male, female, or other")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient")
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("patient")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return items, total, nil
}

// History returns the profile-level summary for a patient.
func (s *Service) History(ctx context.Context, id uuid.UUID) (*MedicalHistory, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p.MedicalHistory, nil
}

// AppendHistory merges new summary data into the patient's history. A new
// diagnosis replaces the summary line; allergies and lab results append.
func (s *Service) AppendHistory(ctx context.Context, id uuid.UUID, update MedicalHistory) (*MedicalHistory, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	h := p.MedicalHistory
	if strings.TrimSpace(update.Diagnosis) != "" {
		h.Diagnosis = update.Diagnosis
	}
	for _, a := range update.Allergies {
		if a != "" && !containsString(h.Allergies, a) {
			h.Allergies = append(h.Allergies, a)
		}
	}
	h.LabResults = append(h.LabResults, update.LabResults...)

	if err := s.patients.UpdateHistory(ctx, id, h); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient")
		}
		return nil, apperr.Internal(err)
	}
	return &h, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
