package record

import (
	"time"

	"github.com/google/uuid"
)

// Prescription ties a record entry to a medicine. MedicineName is
// resolved at read time for display and never stored.
type Prescription struct {
	MedicineID   uuid.UUID `json:"medicineId"`
	MedicineName string    `json:"medicineName,omitempty"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Duration     string    `json:"duration"`
	Instructions string    `json:"instructions,omitempty"`
}

// Attachment is a document linked to a visit.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// MedicalRecord is an append-only visit entry. DoctorName is resolved at
// read time. VisitDate is stamped server-side when the entry is written.
type MedicalRecord struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	PatientID     uuid.UUID      `db:"patient_id" json:"patientId"`
	DoctorID      uuid.UUID      `db:"doctor_id" json:"doctorId"`
	DoctorName    string         `db:"-" json:"doctorName,omitempty"`
	VisitDate     time.Time      `db:"visit_date" json:"visitDate"`
	Diagnosis     string         `db:"diagnosis" json:"diagnosis"`
	Symptoms      []string       `db:"symptoms" json:"symptoms"`
	Notes         string         `db:"notes" json:"notes"`
	Prescriptions []Prescription `db:"prescriptions" json:"prescriptions"`
	Attachments   []Attachment   `db:"attachments" json:"attachments"`
	FollowUpDate  *time.Time     `db:"follow_up_date" json:"followUpDate,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}
