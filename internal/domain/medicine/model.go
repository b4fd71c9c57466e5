package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Dosage forms accepted on a medicine record.
var ValidDosageForms = map[string]bool{
	"tablet": true, "capsule": true, "syrup": true, "injection": true,
	"cream": true, "ointment": true, "other": true,
}

// Quantity adjustment operations.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
)

// Medicine maps to the medicine table. InStock, LowStock, and Expired are
// computed from the stored fields before a record leaves the service.
type Medicine struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	GenericName  string    `db:"generic_name" json:"genericName"`
	Manufacturer string    `db:"manufacturer" json:"manufacturer"`
	DosageForm   string    `db:"dosage_form" json:"dosageForm"`
	Strength     string    `db:"strength" json:"strength"`
	Quantity     int       `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	BatchNumber  string    `db:"batch_number" json:"batchNumber"`
	ExpiryDate   time.Time `db:"expiry_date" json:"expiryDate"`
	ReorderLevel int       `db:"reorder_level" json:"reorderLevel"`
	UnitPrice    float64   `db:"unit_price" json:"unitPrice"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	InStock  bool `db:"-" json:"inStock"`
	LowStock bool `db:"-" json:"lowStock"`
	Expired  bool `db:"-" json:"expired"`
}

// ComputeFlags fills the derived stock and expiry indicators as of now.
func (m *Medicine) ComputeFlags(now time.Time) {
	m.InStock = m.Quantity > 0
	m.LowStock = m.Quantity <= m.ReorderLevel
	m.Expired = !m.ExpiryDate.After(now)
}
