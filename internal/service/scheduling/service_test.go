package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecare/scheduling-api/internal/model"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/keylock"
	"github.com/telecare/scheduling-api/pkg/logger"
	"github.com/telecare/scheduling-api/pkg/metrics"
)

type fixture struct {
	svc          *Service
	availability *fakeAvailabilityRepo
	appointments *fakeAppointmentRepo
	notifier     *fakeNotifier
	outbox       *fakeOutbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()
	notifier := &fakeNotifier{}
	outbox := &fakeOutbox{}

	svc := NewService(
		appointments,
		NewConflictChecker(availability, appointments),
		keylock.New(),
		notifier,
		outbox,
		metrics.NewTestMetrics(),
		logger.NewLogger(nil),
	)
	return &fixture{
		svc:          svc,
		availability: availability,
		appointments: appointments,
		notifier:     notifier,
		outbox:       outbox,
	}
}

func (f *fixture) withWindow(t *testing.T, doctorID uuid.UUID, day time.Weekday, start, end string, buffer int) {
	t.Helper()
	require.NoError(t, f.availability.Create(context.Background(),
		window(t, doctorID, day, start, end, buffer)))
}

func createRequest(t *testing.T, doctorID uuid.UUID, date time.Time, start, end string) *model.CreateAppointmentRequest {
	t.Helper()
	return &model.CreateAppointmentRequest{
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Date:      date,
		StartTime: tod(t, start),
		EndTime:   tod(t, end),
		Reason:    "checkup",
		AddedBy:   "tester",
	}
}

func TestCreateAppointmentDefaultsToPending(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, []string{"booked"}, f.notifier.recorded())
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, f.outbox.events[0].EventType)
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	tests := []struct {
		name   string
		mutate func(*model.CreateAppointmentRequest)
	}{
		{"missing doctor", func(r *model.CreateAppointmentRequest) { r.DoctorID = uuid.Nil }},
		{"missing patient", func(r *model.CreateAppointmentRequest) { r.PatientID = uuid.Nil }},
		{"missing reason", func(r *model.CreateAppointmentRequest) { r.Reason = "" }},
		{"inverted interval", func(r *model.CreateAppointmentRequest) {
			r.StartTime, r.EndTime = r.EndTime, r.StartTime
		}},
		{"unknown status", func(r *model.CreateAppointmentRequest) { r.Status = "booked_solid" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest(t, doctorID, monday, "10:00", "10:30")
			tt.mutate(req)
			_, err := f.svc.CreateAppointment(context.Background(), req)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "got %v", err)
		})
	}
}

func TestCreateAppointmentNormalizesInterval(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 0)

	req := createRequest(t, doctorID, monday, "10:00:30", "10:30:20")
	created, err := f.svc.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, tod(t, "10:00"), created.StartTime)
	assert.Equal(t, tod(t, "10:31"), created.EndTime)
}

func TestConcurrentCreatesCannotDoubleBook(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(context.Background(),
				createRequest(t, doctorID, monday, "10:00", "10:30"))
			results[i] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.IsKind(err, apperrors.KindSlotOverlap), "got %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRescheduleToOwnSlotSucceeds(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)

	updated, err := f.svc.RescheduleAppointment(context.Background(), created.ID, &model.RescheduleAppointmentRequest{
		Date:      monday,
		StartTime: created.StartTime,
		EndTime:   created.EndTime,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRescheduled, updated.Status)
	assert.Contains(t, f.notifier.recorded(), "rescheduled")
}

func TestRescheduleConflictPropagatesReason(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	first, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)
	second, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "11:00", "11:30"))
	require.NoError(t, err)

	_, err = f.svc.RescheduleAppointment(context.Background(), second.ID, &model.RescheduleAppointmentRequest{
		Date:      monday,
		StartTime: first.StartTime,
		EndTime:   first.EndTime,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotOverlap), "got %v", err)
}

func TestRescheduleUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RescheduleAppointment(context.Background(), uuid.New(), &model.RescheduleAppointmentRequest{
		Date:      monday,
		StartTime: tod(t, "10:00"),
		EndTime:   tod(t, "10:30"),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCancelIsSilentlyIdempotent(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelAppointment(context.Background(), created.ID))
	require.NoError(t, f.svc.CancelAppointment(context.Background(), created.ID))

	stored, err := f.svc.GetAppointment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)
}

func TestCancelledSlotBecomesAvailable(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelAppointment(context.Background(), created.ID))

	_, err = f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	assert.NoError(t, err)
}

func TestUpdateAppointmentStatusClosedSet(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)

	err = f.svc.UpdateAppointmentStatus(context.Background(), created.ID, "postponed")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// Any member of the closed set is accepted, regardless of the current
	// status.
	require.NoError(t, f.svc.UpdateAppointmentStatus(context.Background(), created.ID, model.AppointmentStatusNoShow))
	require.NoError(t, f.svc.UpdateAppointmentStatus(context.Background(), created.ID, model.AppointmentStatusAwaitingPayment))

	stored, err := f.svc.GetAppointment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusAwaitingPayment, stored.Status)
}

func TestCompleteAppointment(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)
	require.NoError(t, f.svc.CompleteAppointment(context.Background(), created.ID))

	stored, err := f.svc.GetAppointment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
}

func TestUpdateAppointmentPatch(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)

	t.Run("small time delta is no change", func(t *testing.T) {
		nearby := monday.Add(10*time.Hour + 5*time.Minute)
		_, err := f.svc.UpdateAppointment(context.Background(), created.ID, &model.UpdateAppointmentRequest{
			ScheduledTime: &nearby,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNoChangeRequested), "got %v", err)
	})

	t.Run("placeholder literals are ignored", func(t *testing.T) {
		placeholder := model.AppointmentStatus("string")
		link := "string"
		_, err := f.svc.UpdateAppointment(context.Background(), created.ID, &model.UpdateAppointmentRequest{
			Status:        &placeholder,
			VideoCallLink: &link,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNoChangeRequested))
	})

	t.Run("same status is no change", func(t *testing.T) {
		same := model.AppointmentStatusPending
		_, err := f.svc.UpdateAppointment(context.Background(), created.ID, &model.UpdateAppointmentRequest{
			Status: &same,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNoChangeRequested))
	})

	t.Run("large time delta shifts the slot", func(t *testing.T) {
		moved := monday.Add(14 * time.Hour)
		updated, err := f.svc.UpdateAppointment(context.Background(), created.ID, &model.UpdateAppointmentRequest{
			ScheduledTime: &moved,
		})
		require.NoError(t, err)
		assert.Equal(t, tod(t, "14:00"), updated.StartTime)
		assert.Equal(t, tod(t, "14:30"), updated.EndTime)
	})

	t.Run("status change applies", func(t *testing.T) {
		confirmed := model.AppointmentStatusConfirmed
		updated, err := f.svc.UpdateAppointment(context.Background(), created.ID, &model.UpdateAppointmentRequest{
			Status: &confirmed,
		})
		require.NoError(t, err)
		assert.Equal(t, confirmed, updated.Status)
	})
}

func TestDeleteAppointmentBlockedByConsultations(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)

	created, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	require.NoError(t, err)

	f.appointments.consultations[created.ID] = true
	err = f.svc.DeleteAppointment(context.Background(), created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	f.appointments.consultations[created.ID] = false
	require.NoError(t, f.svc.DeleteAppointment(context.Background(), created.ID))

	_, err = f.svc.GetAppointment(context.Background(), created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestOutboxFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	f.withWindow(t, doctorID, time.Monday, "09:00", "12:00", 10)
	f.outbox.fail = true

	_, err := f.svc.CreateAppointment(context.Background(), createRequest(t, doctorID, monday, "10:00", "10:30"))
	assert.NoError(t, err)
}

func TestListAppointmentsValidatesRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListDoctorAppointments(context.Background(), uuid.New(), "someday")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.svc.ListPatientAppointments(context.Background(), uuid.New(), model.RangeUpcoming)
	assert.NoError(t, err)
}
