package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
)

type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	windows []*model.AvailabilityWindow
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, w *model.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, w)
	return nil
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, w *model.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.windows {
		if existing.ID == w.ID {
			f.windows[i] = w
			return nil
		}
	}
	return apperrors.NotFound("availability window")
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.windows {
		if w.ID == id {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("availability window")
}

func (f *fakeAvailabilityRepo) Get(_ context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		if w.ID == id {
			copied := *w
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("availability window")
}

func (f *fakeAvailabilityRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityWindow
	for _, w := range f.windows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) ListForDay(_ context.Context, doctorID uuid.UUID, day time.Weekday) ([]*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityWindow
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.DayOfWeek == day {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	mu            sync.Mutex
	appointments  map[uuid.UUID]*model.Appointment
	consultations map[uuid.UUID]bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments:  make(map[uuid.UUID]*model.Appointment),
		consultations: make(map[uuid.UUID]bool),
	}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment")
	}
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[id]; !ok {
		return apperrors.NotFound("appointment")
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) ListActiveForDay(_ context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || !a.AppointmentDate.Equal(date) {
			continue
		}
		if !a.Status.ActiveForConflicts() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID, _ model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AppointmentDetails
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			out = append(out, &model.AppointmentDetails{Appointment: *a})
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListForPatient(_ context.Context, patientID uuid.UUID, _ model.AppointmentRange) ([]*model.AppointmentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AppointmentDetails
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, &model.AppointmentDetails{Appointment: *a})
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) HasConsultations(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consultations[id], nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) AppointmentBooked(_ context.Context, _ *model.Appointment) {
	f.record("booked")
}

func (f *fakeNotifier) AppointmentRescheduled(_ context.Context, _ *model.Appointment) {
	f.record("rescheduled")
}

func (f *fakeNotifier) AppointmentCancelled(_ context.Context, _ *model.Appointment) {
	f.record("cancelled")
}

func (f *fakeNotifier) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
	fail   bool
}

func (f *fakeOutbox) Create(_ context.Context, e *model.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return apperrors.Storage(context.DeadlineExceeded)
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutbox) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeOutbox) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeOutbox) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
