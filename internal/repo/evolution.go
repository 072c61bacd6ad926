package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Evolution is one SOAP session note (subjective, objective, assessment, plan).
type Evolution struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	Subjective      *string
	Objective       *string
	AssessmentNotes *string
	Plan            *string
	Date            time.Time
}

func EvolutionsByPatient(ctx context.Context, pool *pgxpool.Pool, patientID uuid.UUID) ([]Evolution, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, patient_id, subjective, objective, assessment_notes, plan, date
		FROM evolutions WHERE patient_id = $1 ORDER BY date DESC, id DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Evolution
	for rows.Next() {
		var e Evolution
		if err := rows.Scan(&e.ID, &e.PatientID, &e.Subjective, &e.Objective, &e.AssessmentNotes, &e.Plan, &e.Date); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func CreateEvolution(ctx context.Context, pool *pgxpool.Pool, patientID uuid.UUID, subjective, objective, assessmentNotes, plan *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO evolutions (patient_id, subjective, objective, assessment_notes, plan)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, patientID, subjective, objective, assessmentNotes, plan).Scan(&id)
	return id, err
}
