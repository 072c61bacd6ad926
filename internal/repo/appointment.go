package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Appointment is one bookable agenda entry. StartTime is a string
// (e.g. "09:00:00"); PostgreSQL TIME is returned as string by the driver.
// PatientName is a denormalized copy taken at booking time; later patient
// renames do not propagate to existing rows.
type Appointment struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PatientID   uuid.UUID
	PatientName string
	Date        time.Time
	StartTime   string
	Type        string
	Notes       *string
	IsRecurring bool
	CreatedAt   time.Time
}

// TimeStringToHHMM returns "HH:MM" from a DB time string ("HH:MM:SS" or "HH:MM").
func TimeStringToHHMM(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

const appointmentCols = `id, user_id, patient_id, patient_name, appointment_date, start_time::text, appointment_type, notes, is_recurring, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.PatientID, &a.PatientName, &a.Date, &a.StartTime, &a.Type, &a.Notes, &a.IsRecurring, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func CreateAppointment(ctx context.Context, pool *pgxpool.Pool, userID, patientID uuid.UUID, patientName string, date time.Time, startTime string, apptType string, notes string, isRecurring bool) (*Appointment, error) {
	var n *string
	if notes != "" {
		n = &notes
	}
	row := pool.QueryRow(ctx, `
		INSERT INTO appointments (user_id, patient_id, patient_name, appointment_date, start_time, appointment_type, notes, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+appointmentCols,
		userID, patientID, patientName, date, startTime, apptType, n, isRecurring)
	return scanAppointment(row)
}

// AppointmentsByUserAndDateRange returns the owner's appointments with
// appointment_date in [from, to], ordered by date then start time.
func AppointmentsByUserAndDateRange(ctx context.Context, pool *pgxpool.Pool, userID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE user_id = $1 AND appointment_date >= $2 AND appointment_date <= $3
		ORDER BY appointment_date, start_time
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// AppointmentByID looks a row up by id alone. Callers compare UserID to the
// requester to tell "not found" from "someone else's row".
func AppointmentByID(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (*Appointment, error) {
	row := pool.QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

// DeleteAppointment removes the row scoped to the owner. Returns the number
// of rows deleted (0 when the id does not exist for that owner).
func DeleteAppointment(ctx context.Context, pool *pgxpool.Pool, userID, id uuid.UUID) (int64, error) {
	tag, err := pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
