package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/interop-api/internal/model"
	"github.com/jwalitptl/interop-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, first_name, middle_name, last_name, suffix,
			gender, birth_date, civil_status, nationality, religion, occupation,
			philhealth_id, blood_type, pwd_type,
			mobile_number, address_line, city, province, postal_code,
			emergency_contact_name, emergency_contact_mobile, emergency_contact_relationship,
			indigenous, indigenous_group, consent,
			created_at, updated_at
		) VALUES (
			:id, :first_name, :middle_name, :last_name, :suffix,
			:gender, :birth_date, :civil_status, :nationality, :religion, :occupation,
			:philhealth_id, :blood_type, :pwd_type,
			:mobile_number, :address_line, :city, :province, :postal_code,
			:emergency_contact_name, :emergency_contact_mobile, :emergency_contact_relationship,
			:indigenous, :indigenous_group, :consent,
			:created_at, :updated_at
		)
	`
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPhilHealthID(ctx context.Context, philhealthID string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE philhealth_id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, philhealthID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by philhealth id: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = :first_name, middle_name = :middle_name,
			last_name = :last_name, suffix = :suffix,
			gender = :gender, birth_date = :birth_date, civil_status = :civil_status,
			nationality = :nationality, religion = :religion, occupation = :occupation,
			philhealth_id = :philhealth_id, blood_type = :blood_type, pwd_type = :pwd_type,
			mobile_number = :mobile_number, address_line = :address_line,
			city = :city, province = :province, postal_code = :postal_code,
			emergency_contact_name = :emergency_contact_name,
			emergency_contact_mobile = :emergency_contact_mobile,
			emergency_contact_relationship = :emergency_contact_relationship,
			indigenous = :indigenous, indigenous_group = :indigenous_group,
			consent = :consent, updated_at = :updated_at
		WHERE id = :id
	`
	patient.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}
