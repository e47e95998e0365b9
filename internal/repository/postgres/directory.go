package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
)

func (r *directoryRepository) GetDoctorContact(ctx context.Context, doctorID uuid.UUID) (*model.Contact, error) {
	query := `SELECT id, full_name, email FROM doctor_details WHERE id = $1`

	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, query, doctorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("doctor")
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &contact, nil
}

func (r *directoryRepository) GetPatientContact(ctx context.Context, patientID uuid.UUID) (*model.Contact, error) {
	query := `SELECT id, full_name, email FROM patient_details WHERE id = $1`

	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient")
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &contact, nil
}
