package record

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zephyrixtech/clinic-next/internal/domain/doctor"
	"github.com/zephyrixtech/clinic-next/internal/domain/medicine"
	"github.com/zephyrixtech/clinic-next/internal/domain/patient"
	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type Service struct {
	records   Repository
	patients  patient.Repository
	doctors   doctor.Repository
	medicines medicine.Repository
	now       func() time.Time
}

func NewService(records Repository, patients patient.Repository, doctors doctor.Repository, medicines medicine.Repository) *Service {
	return &Service{
		records:   records,
		patients:  patients,
		doctors:   doctors,
		medicines: medicines,
		now:       time.Now,
	}
}

// AddEntryInput carries a new visit entry. VisitDate is not accepted from
// the caller; entries are stamped when written.
type AddEntryInput struct {
	PatientID     uuid.UUID      `json:"patientId"`
	DoctorID      uuid.UUID      `json:"doctorId"`
	Diagnosis     string         `json:"diagnosis"`
	Symptoms      []string       `json:"symptoms"`
	Notes         string         `json:"notes"`
	Prescriptions []Prescription `json:"prescriptions"`
	Attachments   []Attachment   `json:"attachments"`
	FollowUpDate  *time.Time     `json:"followUpDate"`
}

func (s *Service) AddEntry(ctx context.Context, in AddEntryInput) (*MedicalRecord, error) {
	if strings.TrimSpace(in.Diagnosis) == "" {
		return nil, apperr.Validation("diagnosis is required")
	}
	for i, p := range in.Prescriptions {
		if p.MedicineID == uuid.Nil {
			return nil, apperr.Validation("prescription %d: medicineId is required", i)
		}
		if p.Dosage == "" || p.Frequency == "" || p.Duration == "" {
			return nil, apperr.Validation("prescription %d: dosage, frequency, and duration are required", i)
		}
	}

	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient")
		}
		return nil, apperr.Internal(err)
	}
	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("doctor")
		}
		return nil, apperr.Internal(err)
	}

	// Every prescribed medicine must exist in the inventory.
	if len(in.Prescriptions) > 0 {
		ids := make([]uuid.UUID, 0, len(in.Prescriptions))
		for _, p := range in.Prescriptions {
			ids = append(ids, p.MedicineID)
		}
		known, err := s.medicines.ListByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		byID := make(map[uuid.UUID]bool, len(known))
		for _, m := range known {
			byID[m.ID] = true
		}
		for _, p := range in.Prescriptions {
			if !byID[p.MedicineID] {
				return nil, apperr.NotFound("medicine")
			}
		}
	}

	r := &MedicalRecord{
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		VisitDate:     s.now().UTC(),
		Diagnosis:     in.Diagnosis,
		Symptoms:      in.Symptoms,
		Notes:         in.Notes,
		Prescriptions: in.Prescriptions,
		Attachments:   in.Attachments,
		FollowUpDate:  in.FollowUpDate,
	}
	if err := s.records.Create(ctx, r); err != nil {
		return nil, apperr.Internal(err)
	}
	return r, nil
}

// ListByPatient returns the patient's ledger newest first, with doctor
// and medicine names resolved for display.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient")
		}
		return nil, apperr.Internal(err)
	}

	items, err := s.records.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.resolveNames(ctx, items); err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *Service) resolveNames(ctx context.Context, items []*MedicalRecord) error {
	medicineIDs := make(map[uuid.UUID]bool)
	for _, r := range items {
		for _, p := range r.Prescriptions {
			medicineIDs[p.MedicineID] = true
		}
	}
	medicineNames := make(map[uuid.UUID]string, len(medicineIDs))
	if len(medicineIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(medicineIDs))
		for id := range medicineIDs {
			ids = append(ids, id)
		}
		meds, err := s.medicines.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, m := range meds {
			medicineNames[m.ID] = m.Name
		}
	}

	doctorNames := make(map[uuid.UUID]string)
	for _, r := range items {
		if _, ok := doctorNames[r.DoctorID]; !ok {
			d, err := s.doctors.GetByID(ctx, r.DoctorID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					doctorNames[r.DoctorID] = ""
					continue
				}
				return err
			}
			doctorNames[r.DoctorID] = d.Name
		}
		r.DoctorName = doctorNames[r.DoctorID]
		for i := range r.Prescriptions {
			r.Prescriptions[i].MedicineName = medicineNames[r.Prescriptions[i].MedicineID]
		}
	}
	return nil
}
