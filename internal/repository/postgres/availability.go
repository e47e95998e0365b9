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

const availabilityColumns = `
	id, doctor_id, day_of_week, start_time, end_time,
	slot_duration_minutes, buffer_minutes, created_at, updated_at
`

func (r *availabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	query := `
		INSERT INTO doctor_availability (
			id, doctor_id, day_of_week, start_time, end_time,
			slot_duration_minutes, buffer_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		window.ID,
		window.DoctorID,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.SlotDurationMinutes,
		window.BufferMinutes,
		window.CreatedAt,
		window.UpdatedAt,
	)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *availabilityRepository) Update(ctx context.Context, window *model.AvailabilityWindow) error {
	query := `
		UPDATE doctor_availability
		SET day_of_week = $1, start_time = $2, end_time = $3,
		    slot_duration_minutes = $4, buffer_minutes = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.SlotDurationMinutes,
		window.BufferMinutes,
		window.UpdatedAt,
		window.ID,
	)
	if err != nil {
		return apperrors.Storage(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(err)
	}
	if rows == 0 {
		return apperrors.NotFound("availability window")
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctor_availability WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(err)
	}
	if rows == 0 {
		return apperrors.NotFound("availability window")
	}
	return nil
}

func (r *availabilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	query := `SELECT ` + availabilityColumns + ` FROM doctor_availability WHERE id = $1`

	var window model.AvailabilityWindow
	err := r.db.GetContext(ctx, &window, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("availability window")
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &window, nil
}

func (r *availabilityRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM doctor_availability
		WHERE doctor_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`
	var windows []*model.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, doctorID); err != nil {
		return nil, apperrors.Storage(err)
	}
	return windows, nil
}

func (r *availabilityRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM doctor_availability
		WHERE doctor_id = $1
		AND day_of_week = $2
		ORDER BY start_time ASC
	`
	var windows []*model.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, doctorID, day); err != nil {
		return nil, apperrors.Storage(err)
	}
	return windows, nil
}
