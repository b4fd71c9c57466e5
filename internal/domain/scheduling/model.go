package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. An appointment starts pending and moves through
// the transition table below; cancelled and completed are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatuses are the recognized status spellings.
var ValidStatuses = map[string]bool{
	StatusPending: true, StatusApproved: true,
	StatusCancelled: true, StatusCompleted: true,
}

var allowedTransitions = map[string]map[string]bool{
	StatusPending:  {StatusApproved: true, StatusCancelled: true},
	StatusApproved: {StatusCompleted: true, StatusCancelled: true},
}

// CanTransition reports whether moving from one status to another is
// allowed. Self-transitions are not.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}

// Appointment maps to the appointment table. DateTime is a single point
// in time, stored and compared in UTC.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctorId"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	DateTime  time.Time `db:"date_time" json:"dateTime"`
	Status    string    `db:"status" json:"status"`
	Reason    string    `db:"reason" json:"reason"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
