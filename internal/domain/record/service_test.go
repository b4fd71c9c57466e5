package record

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zephyrixtech/clinic-next/internal/domain/doctor"
	"github.com/zephyrixtech/clinic-next/internal/domain/medicine"
	"github.com/zephyrixtech/clinic-next/internal/domain/patient"
	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type mockRecordRepo struct {
	records []*MedicalRecord
}

func (m *mockRecordRepo) Create(ctx context.Context, r *MedicalRecord) error {
	r.ID = uuid.New()
	m.records = append(m.records, r)
	return nil
}

func (m *mockRecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	var items []*MedicalRecord
	for _, r := range m.records {
		if r.PatientID == patientID {
			cp := *r
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VisitDate.After(items[j].VisitDate) })
	return items, nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func (m *mockDoctorRepo) Create(ctx context.Context, d *doctor.Doctor) error { return nil }

func (m *mockDoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(ctx context.Context, d *doctor.Doctor) error { return nil }

func (m *mockDoctorRepo) List(ctx context.Context, limit, offset int) ([]*doctor.Doctor, int, error) {
	return nil, 0, nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error { return nil }

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, p *patient.Patient) error { return nil }

func (m *mockPatientRepo) List(ctx context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

func (m *mockPatientRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*patient.Patient, error) {
	return nil, nil
}

func (m *mockPatientRepo) UpdateHistory(ctx context.Context, id uuid.UUID, h patient.MedicalHistory) error {
	return nil
}

type mockMedicineRepo struct {
	medicines map[uuid.UUID]*medicine.Medicine
}

func (m *mockMedicineRepo) Create(ctx context.Context, med *medicine.Medicine) error { return nil }

func (m *mockMedicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return med, nil
}

func (m *mockMedicineRepo) Update(ctx context.Context, med *medicine.Medicine) error { return nil }

func (m *mockMedicineRepo) List(ctx context.Context, limit, offset int) ([]*medicine.Medicine, int, error) {
	return nil, 0, nil
}

func (m *mockMedicineRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*medicine.Medicine, error) {
	var items []*medicine.Medicine
	for _, id := range ids {
		if med, ok := m.medicines[id]; ok {
			items = append(items, med)
		}
	}
	return items, nil
}

func (m *mockMedicineRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*medicine.Medicine, error) {
	return nil, pgx.ErrNoRows
}

func (m *mockMedicineRepo) ListLowStock(ctx context.Context, threshold *int) ([]*medicine.Medicine, error) {
	return nil, nil
}

func (m *mockMedicineRepo) ListExpired(ctx context.Context, asOf time.Time) ([]*medicine.Medicine, error) {
	return nil, nil
}

type fixture struct {
	svc        *Service
	records    *mockRecordRepo
	patientID  uuid.UUID
	doctorID   uuid.UUID
	medicineID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	patientID := uuid.New()
	doctorID := uuid.New()
	medicineID := uuid.New()

	records := &mockRecordRepo{}
	svc := NewService(
		records,
		&mockPatientRepo{patients: map[uuid.UUID]*patient.Patient{
			patientID: {ID: patientID, Name: "Ravi Kumar"},
		}},
		&mockDoctorRepo{doctors: map[uuid.UUID]*doctor.Doctor{
			doctorID: {ID: doctorID, Name: "Dr. Asha Rao"},
		}},
		&mockMedicineRepo{medicines: map[uuid.UUID]*medicine.Medicine{
			medicineID: {ID: medicineID, Name: "Paracetamol"},
		}},
	)
	return &fixture{svc: svc, records: records, patientID: patientID, doctorID: doctorID, medicineID: medicineID}
}

func (f *fixture) validInput() AddEntryInput {
	return AddEntryInput{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Diagnosis: "Seasonal flu",
		Symptoms:  []string{"fever", "cough"},
		Prescriptions: []Prescription{
			{MedicineID: f.medicineID, Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
		},
	}
}

func TestAddEntry(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.AddEntry(context.Background(), f.validInput())
	if err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}
	if r.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
	if r.VisitDate.IsZero() {
		t.Error("expected visitDate stamped server-side")
	}
}

func TestAddEntry_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*AddEntryInput)
	}{
		{"empty diagnosis", func(in *AddEntryInput) { in.Diagnosis = "  " }},
		{"prescription missing medicine", func(in *AddEntryInput) { in.Prescriptions[0].MedicineID = uuid.Nil }},
		{"prescription missing dosage", func(in *AddEntryInput) { in.Prescriptions[0].Dosage = "" }},
		{"prescription missing frequency", func(in *AddEntryInput) { in.Prescriptions[0].Frequency = "" }},
		{"prescription missing duration", func(in *AddEntryInput) { in.Prescriptions[0].Duration = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.validInput()
			tt.mutate(&in)
			_, err := f.svc.AddEntry(context.Background(), in)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddEntry_NotFound(t *testing.T) {
	f := newFixture(t)

	in := f.validInput()
	in.PatientID = uuid.New()
	if _, err := f.svc.AddEntry(context.Background(), in); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found for missing patient, got %v", err)
	}

	in = f.validInput()
	in.DoctorID = uuid.New()
	if _, err := f.svc.AddEntry(context.Background(), in); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found for missing doctor, got %v", err)
	}

	in = f.validInput()
	in.Prescriptions[0].MedicineID = uuid.New()
	if _, err := f.svc.AddEntry(context.Background(), in); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found for unknown medicine, got %v", err)
	}
}

func TestListByPatient_ResolvesNames(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.AddEntry(context.Background(), f.validInput()); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}

	items, err := f.svc.ListByPatient(context.Background(), f.patientID)
	if err != nil {
		t.Fatalf("ListByPatient() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}
	if items[0].DoctorName != "Dr. Asha Rao" {
		t.Errorf("expected doctor name resolved, got %q", items[0].DoctorName)
	}
	if items[0].Prescriptions[0].MedicineName != "Paracetamol" {
		t.Errorf("expected medicine name resolved, got %q", items[0].Prescriptions[0].MedicineName)
	}
}

func TestListByPatient_NewestFirst(t *testing.T) {
	f := newFixture(t)

	older := f.validInput()
	older.Diagnosis = "older visit"
	if _, err := f.svc.AddEntry(context.Background(), older); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}
	// Backdate the first entry so ordering is observable.
	f.records.records[0].VisitDate = f.records.records[0].VisitDate.Add(-48 * time.Hour)

	newer := f.validInput()
	newer.Diagnosis = "newer visit"
	if _, err := f.svc.AddEntry(context.Background(), newer); err != nil {
		t.Fatalf("AddEntry() error: %v", err)
	}

	items, err := f.svc.ListByPatient(context.Background(), f.patientID)
	if err != nil {
		t.Fatalf("ListByPatient() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(items))
	}
	if items[0].Diagnosis != "newer visit" {
		t.Errorf("expected newest first, got %q", items[0].Diagnosis)
	}
}

func TestListByPatient_PatientNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListByPatient(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}
