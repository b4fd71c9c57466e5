package medicine

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
	medicines Repository
	now       func() time.Time
}

func NewService(medicines Repository) *Service {
	return &Service{medicines: medicines, now: time.Now}
}

func validateMedicine(m *Medicine) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Validation("name is required")
	}
	if !ValidDosageForms[m.DosageForm] {
		return apperr.Validation("unknown dosage form %q", m.DosageForm)
	}
	if m.Quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	if m.ReorderLevel < 0 {
		return apperr.Validation("reorderLevel must not be negative")
	}
	if m.UnitPrice < 0 {
		return apperr.Validation("unitPrice must not be negative")
	}
	if m.ExpiryDate.IsZero() {
		return apperr.Validation("expiryDate is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if err := validateMedicine(m); err != nil {
		return err
	}
	if err := s.medicines.Create(ctx, m); err != nil {
		return apperr.Internal(err)
	}
	m.ComputeFlags(s.now())
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("medicine")
		}
		return nil, apperr.Internal(err)
	}
	m.ComputeFlags(s.now())
	return m, nil
}

func (s *Service) Update(ctx context.Context, m *Medicine) error {
	if err := validateMedicine(m); err != nil {
		return err
	}
	if err := s.medicines.Update(ctx, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("medicine")
		}
		return apperr.Internal(err)
	}
	m.ComputeFlags(s.now())
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	items, total, err := s.medicines.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	now := s.now()
	for _, m := range items {
		m.ComputeFlags(now)
	}
	return items, total, nil
}

// AdjustQuantity adds or subtracts stock. Subtracting past zero leaves the
// record untouched and reports insufficient_quantity.
func (s *Service) AdjustQuantity(ctx context.Context, id uuid.UUID, amount int, op string) (*Medicine, error) {
	if amount <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	delta := amount
	switch op {
	case OpAdd:
	case OpSubtract:
		delta = -amount
	default:
		return nil, apperr.Validation("operation must be add or subtract")
	}

	m, err := s.medicines.AdjustQuantity(ctx, id, delta)
	if err == nil {
		m.ComputeFlags(s.now())
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Internal(err)
	}

	// The guarded update matched no row: either the medicine is missing or
	// the subtraction would go negative. Disambiguate with a read.
	cur, getErr := s.medicines.GetByID(ctx, id)
	if getErr != nil {
		if errors.Is(getErr, pgx.ErrNoRows) {
			return nil, apperr.NotFound("medicine")
		}
		return nil, apperr.Internal(getErr)
	}
	return nil, apperr.New(apperr.KindInsufficientQuantity,
		"cannot subtract %d from stock of %d", amount, cur.Quantity)
}

func (s *Service) ListLowStock(ctx context.Context, threshold *int) ([]*Medicine, error) {
	if threshold != nil && *threshold < 0 {
		return nil, apperr.Validation("threshold must not be negative")
	}
	items, err := s.medicines.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	now := s.now()
	for _, m := range items {
		m.ComputeFlags(now)
	}
	return items, nil
}

func (s *Service) ListExpired(ctx context.Context) ([]*Medicine, error) {
	now := s.now()
	items, err := s.medicines.ListExpired(ctx, now)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, m := range items {
		m.ComputeFlags(now)
	}
	return items, nil
}
