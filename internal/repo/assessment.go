package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment is the one intake evaluation per patient.
type Assessment struct {
	ID         uuid.UUID
	PatientID  uuid.UUID
	Complaint  *string
	HDA        *string `gorm:"column:hda"`
	HPP        *string `gorm:"column:hpp"`
	PainLevel  *int
	Vitals     *string
	Inspection *string
	ROM        *string `gorm:"column:rom"`
	Diagnosis  *string
	Goals      *string
	Plan       *string
}

func AssessmentByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*Assessment, error) {
	var a Assessment
	err := db.WithContext(ctx).Raw(`
		SELECT id, patient_id, complaint, hda, hpp, pain_level, vitals, inspection, rom, diagnosis, goals, plan
		FROM assessments WHERE patient_id = ?
	`, patientID).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

// UpsertAssessment writes the patient's intake assessment, replacing a prior
// one. The original kept exactly one assessment row per patient.
func UpsertAssessment(ctx context.Context, db *gorm.DB, a *Assessment) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO assessments (patient_id, complaint, hda, hpp, pain_level, vitals, inspection, rom, diagnosis, goals, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (patient_id) DO UPDATE SET
			complaint = EXCLUDED.complaint,
			hda = EXCLUDED.hda,
			hpp = EXCLUDED.hpp,
			pain_level = EXCLUDED.pain_level,
			vitals = EXCLUDED.vitals,
			inspection = EXCLUDED.inspection,
			rom = EXCLUDED.rom,
			diagnosis = EXCLUDED.diagnosis,
			goals = EXCLUDED.goals,
			plan = EXCLUDED.plan,
			updated_at = now()
	`, a.PatientID, a.Complaint, a.HDA, a.HPP, a.PainLevel, a.Vitals, a.Inspection, a.ROM, a.Diagnosis, a.Goals, a.Plan).Error
}
