package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		items = append(items, p)
	}
	return items, len(m.patients), nil
}

func (m *mockRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Patient, error) {
	var items []*Patient
	for _, id := range ids {
		if p, ok := m.patients[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (m *mockRepo) UpdateHistory(ctx context.Context, id uuid.UUID, h MedicalHistory) error {
	p, ok := m.patients[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.MedicalHistory = h
	return nil
}

func validPatient() *Patient {
	return &Patient{
		Name:        "Ravi Kumar",
		Age:         34,
		Gender:      "male",
		ContactInfo: ContactInfo{Phone: "555-0123", Email: "ravi@example.com", Address: "12 Park Lane"},
		DateOfBirth: time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing name", func(p *Patient) { p.Name = " " }},
		{"negative age", func(p *Patient) { p.Age = -1 }},
		{"unknown gender", func(p *Patient) { p.Gender = "unknown" }},
		{"empty gender", func(p *Patient) { p.Gender = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			err := svc.Create(context.Background(), p)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestAppendHistory(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()
	p.MedicalHistory = MedicalHistory{Diagnosis: "Migraine", Allergies: []string{"penicillin"}}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	update := MedicalHistory{
		Diagnosis: "Chronic migraine",
		Allergies: []string{"penicillin", "aspirin"},
		LabResults: []LabResult{
			{TestName: "CBC", Date: time.Now().UTC(), Result: "normal"},
		},
	}
	got, err := svc.AppendHistory(context.Background(), p.ID, update)
	if err != nil {
		t.Fatalf("AppendHistory() error: %v", err)
	}

	if got.Diagnosis != "Chronic migraine" {
		t.Errorf("expected diagnosis replaced, got %q", got.Diagnosis)
	}
	if len(got.Allergies) != 2 {
		t.Errorf("expected deduplicated allergies [penicillin aspirin], got %v", got.Allergies)
	}
	if len(got.LabResults) != 1 {
		t.Errorf("expected 1 lab result appended, got %d", len(got.LabResults))
	}
}

func TestAppendHistory_KeepsDiagnosisWhenEmpty(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()
	p.MedicalHistory = MedicalHistory{Diagnosis: "Asthma"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := svc.AppendHistory(context.Background(), p.ID, MedicalHistory{Allergies: []string{"dust"}})
	if err != nil {
		t.Fatalf("AppendHistory() error: %v", err)
	}
	if got.Diagnosis != "Asthma" {
		t.Errorf("expected diagnosis preserved, got %q", got.Diagnosis)
	}
}

func TestAppendHistory_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.AppendHistory(context.Background(), uuid.New(), MedicalHistory{})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}
