package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Patient, error)
	UpdateHistory(ctx context.Context, id uuid.UUID, h MedicalHistory) error
}
