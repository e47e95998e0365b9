package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/repository"
	"github.com/telecare/scheduling-api/internal/service/notification"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/keylock"
	"github.com/telecare/scheduling-api/pkg/logger"
	"github.com/telecare/scheduling-api/pkg/metrics"
	"github.com/telecare/scheduling-api/pkg/timeslot"
)

// MinMeaningfulReschedule is the threshold below which a patched
// ScheduledTime is treated as no change.
const MinMeaningfulReschedule = 10 * time.Minute

// placeholderLiteral is the swagger default clients sometimes submit
// verbatim; it means the field was not really filled in.
const placeholderLiteral = "string"

// Service orchestrates appointment booking, rescheduling, cancellation and
// status updates. Each mutation holds the doctor+date key lock across its
// load-check-write sequence so concurrent requests cannot double-book.
type Service struct {
	repo     repository.AppointmentRepository
	checker  *ConflictChecker
	locks    *keylock.KeyLock
	notifier notification.Notifier
	outbox   repository.OutboxRepository
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	checker *ConflictChecker,
	locks *keylock.KeyLock,
	notifier notification.Notifier,
	outbox repository.OutboxRepository,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		checker:  checker,
		locks:    locks,
		notifier: notifier,
		outbox:   outbox,
		metrics:  m,
		logger:   l,
	}
}

func bookingKey(doctorID uuid.UUID, date time.Time) string {
	return doctorID.String() + "|" + date.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) checkSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot timeslot.Interval, excludeID *uuid.UUID) (*model.AvailabilityWindow, error) {
	timer := prometheus.NewTimer(s.metrics.ConflictCheckTime)
	defer timer.ObserveDuration()
	return s.checker.Check(ctx, doctorID, date, slot, excludeID)
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.DoctorID == uuid.Nil {
		return nil, apperrors.Validation("doctor ID is required")
	}
	if req.PatientID == uuid.Nil {
		return nil, apperrors.Validation("patient ID is required")
	}
	if req.Reason == "" {
		return nil, apperrors.Validation("reason is required")
	}

	status := req.Status
	if status == "" {
		status = model.AppointmentStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.Validation("invalid appointment status")
	}

	slot := timeslot.NewInterval(req.StartTime, req.EndTime)
	if !slot.Valid() {
		return nil, apperrors.Validation("start time must be before end time")
	}
	slot = slot.Normalize()
	date := dateOnly(req.Date)

	release := s.locks.Acquire(bookingKey(req.DoctorID, date))
	defer release()

	if _, err := s.checkSlot(ctx, req.DoctorID, date, slot, nil); err != nil {
		s.metrics.BookingsRejected.WithLabelValues(apperrors.KindOf(err).String()).Inc()
		return nil, err
	}

	now := time.Now()
	appointment := &model.Appointment{
		ID:              uuid.New(),
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentDate: date,
		StartTime:       slot.Start,
		EndTime:         slot.End,
		Status:          status,
		Reason:          req.Reason,
		AddedBy:         req.AddedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	s.notifier.AppointmentBooked(ctx, appointment)
	s.emitEvent(ctx, model.EventAppointmentCreated, appointment)

	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.AppointmentStatusRescheduled
	}
	if !status.Valid() {
		return nil, apperrors.Validation("invalid appointment status")
	}

	slot := timeslot.NewInterval(req.StartTime, req.EndTime)
	if !slot.Valid() {
		return nil, apperrors.Validation("start time must be before end time")
	}
	slot = slot.Normalize()
	date := dateOnly(req.Date)

	release := s.locks.Acquire(bookingKey(appointment.DoctorID, date))
	defer release()

	if _, err := s.checkSlot(ctx, appointment.DoctorID, date, slot, &id); err != nil {
		s.metrics.BookingsRejected.WithLabelValues(apperrors.KindOf(err).String()).Inc()
		return nil, err
	}

	appointment.AppointmentDate = date
	appointment.StartTime = slot.Start
	appointment.EndTime = slot.End
	appointment.Status = status
	appointment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.metrics.BookingsRescheduled.Inc()
	s.notifier.AppointmentRescheduled(ctx, appointment)
	s.emitEvent(ctx, model.EventAppointmentRescheduled, appointment)

	return appointment, nil
}

// CancelAppointment marks the appointment cancelled. Cancelling an already
// cancelled appointment is a silent no-op in effect.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	appointment.Status = model.AppointmentStatusCancelled
	appointment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, appointment); err != nil {
		return err
	}

	s.metrics.BookingsCancelled.Inc()
	s.notifier.AppointmentCancelled(ctx, appointment)
	s.emitEvent(ctx, model.EventAppointmentCancelled, appointment)

	return nil
}

func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.UpdateAppointmentStatus(ctx, id, model.AppointmentStatusCompleted)
}

// UpdateAppointmentStatus overwrites the status after a closed-set check.
// Which status may follow which is intentionally not gated.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	if !status.Valid() {
		return apperrors.Validation("invalid appointment status")
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	appointment.Status = status
	appointment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, appointment); err != nil {
		return err
	}

	s.emitEvent(ctx, model.EventAppointmentStatus, appointment)
	return nil
}

// UpdateAppointment applies the narrow field patch. A field only counts as
// changed when it differs meaningfully from the stored value: a scheduled
// time must move by more than MinMeaningfulReschedule, a status must be a
// valid value different from the current one, and placeholder literals mean
// the field was not filled in.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false

	if req.ScheduledTime != nil {
		current := scheduledAt(appointment)
		delta := req.ScheduledTime.Sub(current)
		if delta < 0 {
			delta = -delta
		}
		if delta > MinMeaningfulReschedule {
			duration := appointment.EndTime - appointment.StartTime
			appointment.AppointmentDate = dateOnly(*req.ScheduledTime)
			appointment.StartTime = timeOfDay(*req.ScheduledTime)
			appointment.EndTime = appointment.StartTime + duration
			changed = true
		}
	}

	if req.Status != nil && string(*req.Status) != placeholderLiteral {
		if req.Status.Valid() && *req.Status != appointment.Status {
			appointment.Status = *req.Status
			changed = true
		}
	}

	if req.VideoCallLink != nil && *req.VideoCallLink != "" && *req.VideoCallLink != placeholderLiteral {
		if appointment.VideoCallLink == nil || *appointment.VideoCallLink != *req.VideoCallLink {
			appointment.VideoCallLink = req.VideoCallLink
			changed = true
		}
	}

	if !changed {
		return nil, apperrors.NoChangeRequested("no effective change requested")
	}

	appointment.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// DeleteAppointment removes the record permanently. Distinct from
// cancellation, and blocked while consultation records reference it.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	hasConsultations, err := s.repo.HasConsultations(ctx, id)
	if err != nil {
		return err
	}
	if hasConsultations {
		return apperrors.Validation("cannot delete appointment with consultation records")
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	if !rng.Valid() {
		return nil, apperrors.Validation("invalid appointment range")
	}
	return s.repo.ListForDoctor(ctx, doctorID, rng)
}

func (s *Service) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, rng model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	if !rng.Valid() {
		return nil, apperrors.Validation("invalid appointment range")
	}
	return s.repo.ListForPatient(ctx, patientID, rng)
}

// emitEvent records the lifecycle event in the outbox for the relay worker.
// The booking outcome is already committed; a failure here is logged and
// swallowed.
func (s *Service) emitEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload, err := json.Marshal(appointment)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record appointment event", "event_type", eventType)
	}
}

func scheduledAt(a *model.Appointment) time.Time {
	return a.AppointmentDate.Add(a.StartTime.Duration())
}

func timeOfDay(t time.Time) timeslot.TimeOfDay {
	return timeslot.TimeOfDay(
		time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second)
}
