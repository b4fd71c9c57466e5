package record

import (
	"context"

	"github.com/google/uuid"
)

// Repository is append-and-read only. The ledger has no update or delete.
type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error)
}
