package medicine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const medicineCols = `id, name, generic_name, manufacturer, dosage_form, strength,
	quantity, unit, batch_number, expiry_date, reorder_level, unit_price, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.Manufacturer, &m.DosageForm,
		&m.Strength, &m.Quantity, &m.Unit, &m.BatchNumber, &m.ExpiryDate,
		&m.ReorderLevel, &m.UnitPrice, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medicine (id, name, generic_name, manufacturer, dosage_form, strength,
			quantity, unit, batch_number, expiry_date, reorder_level, unit_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.GenericName, m.Manufacturer, m.DosageForm, m.Strength,
		m.Quantity, m.Unit, m.BatchNumber, m.ExpiryDate, m.ReorderLevel, m.UnitPrice,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.pool.QueryRow(ctx, `SELECT `+medicineCols+` FROM medicine WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medicine) error {
	return r.pool.QueryRow(ctx, `
		UPDATE medicine SET name=$2, generic_name=$3, manufacturer=$4, dosage_form=$5,
			strength=$6, quantity=$7, unit=$8, batch_number=$9, expiry_date=$10,
			reorder_level=$11, unit_price=$12, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.GenericName, m.Manufacturer, m.DosageForm, m.Strength,
		m.Quantity, m.Unit, m.BatchNumber, m.ExpiryDate, m.ReorderLevel, m.UnitPrice,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicine ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectMedicines(rows)
	return items, total, err
}

func (r *repoPG) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Medicine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicine WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func (r *repoPG) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*Medicine, error) {
	// The quantity guard runs inside the UPDATE so concurrent adjustments
	// cannot drive the stock negative.
	return scanMedicine(r.pool.QueryRow(ctx, `
		UPDATE medicine SET quantity = quantity + $2, updated_at=NOW()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+medicineCols, id, delta))
}

func (r *repoPG) ListLowStock(ctx context.Context, threshold *int) ([]*Medicine, error) {
	var rows pgx.Rows
	var err error
	if threshold != nil {
		rows, err = r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicine WHERE quantity <= $1 ORDER BY quantity`, *threshold)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicine WHERE quantity <= reorder_level ORDER BY quantity`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func (r *repoPG) ListExpired(ctx context.Context, asOf time.Time) ([]*Medicine, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicine WHERE expiry_date <= $1 ORDER BY expiry_date`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func collectMedicines(rows pgx.Rows) ([]*Medicine, error) {
	var items []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
