package notification

import (
	"context"
	"fmt"

	"github.com/telecare/scheduling-api/internal/email"
	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/repository"
	"github.com/telecare/scheduling-api/pkg/logger"
	"github.com/telecare/scheduling-api/pkg/metrics"
)

// Notifier emits the best-effort emails around booking events. Delivery is
// fire-and-forget relative to the scheduling decision: a committed booking
// is authoritative whether or not its emails go out.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appointment *model.Appointment)
	AppointmentRescheduled(ctx context.Context, appointment *model.Appointment)
	AppointmentCancelled(ctx context.Context, appointment *model.Appointment)
}

type service struct {
	directory repository.DirectoryRepository
	emailSvc  email.Service
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(directory repository.DirectoryRepository, emailSvc email.Service, m *metrics.Metrics, l *logger.Logger) Notifier {
	return &service{
		directory: directory,
		emailSvc:  emailSvc,
		metrics:   m,
		logger:    l,
	}
}

func (s *service) AppointmentBooked(_ context.Context, appointment *model.Appointment) {
	go s.deliver(context.Background(), "booked", appointment)
}

func (s *service) AppointmentRescheduled(_ context.Context, appointment *model.Appointment) {
	go s.deliver(context.Background(), "rescheduled", appointment)
}

func (s *service) AppointmentCancelled(_ context.Context, appointment *model.Appointment) {
	go s.deliver(context.Background(), "cancelled", appointment)
}

// deliver resolves both contacts and sends one email each. Every failure is
// logged and swallowed; nothing propagates to the scheduling caller.
func (s *service) deliver(ctx context.Context, event string, appointment *model.Appointment) {
	doctor, err := s.directory.GetDoctorContact(ctx, appointment.DoctorID)
	if err != nil {
		s.fail(err, event, appointment)
		return
	}
	patient, err := s.directory.GetPatientContact(ctx, appointment.PatientID)
	if err != nil {
		s.fail(err, event, appointment)
		return
	}

	subject, patientBody, doctorBody := renderEmails(event, appointment, doctor, patient)

	if err := s.emailSvc.SendCustom(ctx, patient.Email, subject, patientBody); err != nil {
		s.fail(err, event, appointment)
	} else {
		s.metrics.NotificationsSent.WithLabelValues(event).Inc()
	}

	if err := s.emailSvc.SendCustom(ctx, doctor.Email, subject, doctorBody); err != nil {
		s.fail(err, event, appointment)
	} else {
		s.metrics.NotificationsSent.WithLabelValues(event).Inc()
	}
}

func (s *service) fail(err error, event string, appointment *model.Appointment) {
	s.metrics.NotificationsFailed.WithLabelValues(event).Inc()
	s.logger.Error(err, "appointment notification failed",
		"event", event,
		"appointment_id", appointment.ID.String(),
	)
}

func renderEmails(event string, a *model.Appointment, doctor, patient *model.Contact) (subject, patientBody, doctorBody string) {
	when := fmt.Sprintf("%s %s-%s",
		a.AppointmentDate.Format("Monday, 2 January 2006"), a.StartTime, a.EndTime)

	switch event {
	case "rescheduled":
		subject = "Your appointment has been rescheduled"
		patientBody = fmt.Sprintf("Dear %s,\n\nYour appointment with Dr. %s has been moved to %s.\n",
			patient.FullName, doctor.FullName, when)
		doctorBody = fmt.Sprintf("Dear Dr. %s,\n\nYour appointment with %s has been moved to %s.\n",
			doctor.FullName, patient.FullName, when)
	case "cancelled":
		subject = "Your appointment has been cancelled"
		patientBody = fmt.Sprintf("Dear %s,\n\nYour appointment with Dr. %s on %s has been cancelled.\n",
			patient.FullName, doctor.FullName, when)
		doctorBody = fmt.Sprintf("Dear Dr. %s,\n\nYour appointment with %s on %s has been cancelled.\n",
			doctor.FullName, patient.FullName, when)
	default:
		subject = "Appointment confirmation"
		patientBody = fmt.Sprintf("Dear %s,\n\nYour appointment with Dr. %s is booked for %s.\n\nReason: %s\n",
			patient.FullName, doctor.FullName, when, a.Reason)
		doctorBody = fmt.Sprintf("Dear Dr. %s,\n\nA new appointment with %s is booked for %s.\n\nReason: %s\n",
			doctor.FullName, patient.FullName, when, a.Reason)
	}
	return subject, patientBody, doctorBody
}
