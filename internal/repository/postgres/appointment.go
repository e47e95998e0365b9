package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
)

const appointmentColumns = `
	id, doctor_id, patient_id, appointment_date, start_time, end_time,
	status, reason, added_by, video_call_link, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, appointment_date, start_time, end_time,
			status, reason, added_by, video_call_link, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Reason,
		appointment.AddedBy,
		appointment.VideoCallLink,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment")
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, start_time = $2, end_time = $3, status = $4,
		    reason = $5, video_call_link = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.AppointmentDate,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Reason,
		appointment.VideoCallLink,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return apperrors.Storage(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) ListActiveForDay(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND status NOT IN ('cancelled', 'completed')
	`
	args := []interface{}{doctorID, date}

	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, apperrors.Storage(err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_id, a.appointment_date,
		       a.start_time, a.end_time, a.status, a.reason, a.added_by,
		       a.video_call_link, a.created_at, a.updated_at,
		       d.full_name AS doctor_name, p.full_name AS patient_name
		FROM appointments a
		JOIN doctor_details d ON d.id = a.doctor_id
		JOIN patient_details p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
	` + rangeClause(rng)

	var appointments []*model.AppointmentDetails
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, apperrors.Storage(err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_id, a.appointment_date,
		       a.start_time, a.end_time, a.status, a.reason, a.added_by,
		       a.video_call_link, a.created_at, a.updated_at,
		       d.full_name AS doctor_name, p.full_name AS patient_name
		FROM appointments a
		JOIN doctor_details d ON d.id = a.doctor_id
		JOIN patient_details p ON p.id = a.patient_id
		WHERE a.patient_id = $1
	` + rangeClause(rng)

	var appointments []*model.AppointmentDetails
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, apperrors.Storage(err)
	}
	return appointments, nil
}

// rangeClause matches the listing semantics of the original queries: the
// cancelled range ignores dates, the others exclude cancelled bookings.
func rangeClause(rng model.AppointmentRange) string {
	switch rng {
	case model.RangeToday:
		return ` AND a.appointment_date = CURRENT_DATE AND a.status != 'cancelled' ORDER BY a.start_time ASC`
	case model.RangePast:
		return ` AND a.appointment_date < CURRENT_DATE AND a.status != 'cancelled' ORDER BY a.appointment_date DESC, a.start_time DESC`
	case model.RangeCancelled:
		return ` AND a.status = 'cancelled' ORDER BY a.appointment_date ASC, a.start_time ASC`
	default: // upcoming
		return ` AND a.appointment_date > CURRENT_DATE AND a.status != 'cancelled' ORDER BY a.appointment_date ASC, a.start_time ASC`
	}
}

func (r *appointmentRepository) HasConsultations(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM consultations WHERE appointment_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, appointmentID); err != nil {
		return false, apperrors.Storage(err)
	}
	return exists, nil
}
