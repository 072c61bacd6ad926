package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PatientActive   = "ACTIVE"
	PatientArchived = "ARCHIVED"
)

// Patient belongs to exactly one owner (the therapist account). BirthDate is
// *string because DATE comes back as text and the field is optional.
type Patient struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Phone     *string
	BirthDate *string
	Status    string
}

// PatientsByUser returns the owner's patients ordered by name. When status is
// non-empty only that status is returned; the booking UI asks for ACTIVE so
// archived patients never show up in the picker.
func PatientsByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, status string) ([]Patient, error) {
	q := `
		SELECT id, user_id, name, phone, birth_date::text, status
		FROM patients
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY name`
	var list []Patient
	err := db.WithContext(ctx).Raw(q, args...).Scan(&list).Error
	return list, err
}

func PatientByIDAndUser(ctx context.Context, db *gorm.DB, id, userID uuid.UUID) (*Patient, error) {
	var p Patient
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, name, phone, birth_date::text, status
		FROM patients
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func CreatePatient(ctx context.Context, db *gorm.DB, userID uuid.UUID, name string, phone, birthDate *string) (uuid.UUID, error) {
	var res struct{ ID uuid.UUID }
	err := db.WithContext(ctx).Raw(`
		INSERT INTO patients (user_id, name, phone, birth_date, status) VALUES (?, ?, ?, ?, 'ACTIVE') RETURNING id
	`, userID, name, phone, birthDate).Scan(&res).Error
	return res.ID, err
}

func UpdatePatient(ctx context.Context, db *gorm.DB, id, userID uuid.UUID, name string, phone, birthDate *string) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE patients SET name = ?, phone = ?, birth_date = ?, updated_at = now()
		WHERE id = ? AND user_id = ?
	`, name, phone, birthDate, id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ArchivePatient hides the patient from booking without touching past
// appointments or records.
func ArchivePatient(ctx context.Context, db *gorm.DB, id, userID uuid.UUID) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE patients SET status = 'ARCHIVED', updated_at = now()
		WHERE id = ? AND user_id = ? AND status != 'ARCHIVED'
	`, id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
