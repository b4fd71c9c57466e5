package patient

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo holds a patient's reachable details.
type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// LabResult is a single test outcome kept in the history summary.
type LabResult struct {
	TestName string    `json:"testName"`
	Date     time.Time `json:"date"`
	Result   string    `json:"result"`
}

// MedicalHistory is the summary carried on the patient profile. The full
// visit ledger lives in the record package; this is the at-a-glance view.
type MedicalHistory struct {
	Diagnosis  string      `json:"diagnosis"`
	Allergies  []string    `json:"allergies"`
	LabResults []LabResult `json:"labResults"`
}

// Gender values accepted on a patient profile.
var ValidGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

// Patient maps to the patient table.
type Patient struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Age            int            `db:"age" json:"age"`
	Gender         string         `db:"gender" json:"gender"`
	ContactInfo    ContactInfo    `db:"contact_info" json:"contactInfo"`
	DateOfBirth    time.Time      `db:"date_of_birth" json:"dateOfBirth"`
	MedicalHistory MedicalHistory `db:"medical_history" json:"medicalHistory"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}
