package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recordCols = `id, patient_id, doctor_id, visit_date, diagnosis, symptoms,
	notes, prescriptions, attachments, follow_up_date, created_at, updated_at`

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var r MedicalRecord
	err := row.Scan(&r.ID, &r.PatientID, &r.DoctorID, &r.VisitDate, &r.Diagnosis,
		&r.Symptoms, &r.Notes, &r.Prescriptions, &r.Attachments,
		&r.FollowUpDate, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (rp *repoPG) Create(ctx context.Context, r *MedicalRecord) error {
	r.ID = uuid.New()
	return rp.pool.QueryRow(ctx, `
		INSERT INTO medical_record (id, patient_id, doctor_id, visit_date, diagnosis,
			symptoms, notes, prescriptions, attachments, follow_up_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		r.ID, r.PatientID, r.DoctorID, r.VisitDate, r.Diagnosis,
		r.Symptoms, r.Notes, r.Prescriptions, r.Attachments, r.FollowUpDate,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (rp *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error) {
	rows, err := rp.pool.Query(ctx, `
		SELECT `+recordCols+` FROM medical_record
		WHERE patient_id = $1 ORDER BY visit_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
