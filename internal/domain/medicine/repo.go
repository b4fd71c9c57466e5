package medicine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Medicine, error)
	// AdjustQuantity applies a signed delta atomically, refusing to take the
	// quantity below zero. Returns pgx.ErrNoRows when the guard fails or the
	// medicine does not exist.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*Medicine, error)
	ListLowStock(ctx context.Context, threshold *int) ([]*Medicine, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]*Medicine, error)
}
