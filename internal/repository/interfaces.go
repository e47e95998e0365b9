package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Writes happen
	// while the scheduler holds the doctor+date key lock.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		// ListActiveForDay returns non-cancelled, non-completed appointments
		// for the doctor on the given date, excluding excludeID when set.
		ListActiveForDay(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error)
		// HasConsultations reports whether consultation records reference the
		// appointment; deletion is blocked while any exist.
		HasConsultations(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	}

	AvailabilityRepository interface {
		Create(ctx context.Context, window *model.AvailabilityWindow) error
		Update(ctx context.Context, window *model.AvailabilityWindow) error
		Delete(ctx context.Context, id uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error)
		ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday) ([]*model.AvailabilityWindow, error)
	}

	// DirectoryRepository resolves display names and contact emails. Used
	// only to populate notification content.
	DirectoryRepository interface {
		GetDoctorContact(ctx context.Context, doctorID uuid.UUID) (*model.Contact, error)
		GetPatientContact(ctx context.Context, patientID uuid.UUID) (*model.Contact, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
