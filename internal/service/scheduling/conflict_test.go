package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecare/scheduling-api/internal/model"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/timeslot"
)

func tod(t *testing.T, s string) timeslot.TimeOfDay {
	t.Helper()
	parsed, err := timeslot.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func interval(t *testing.T, start, end string) timeslot.Interval {
	t.Helper()
	return timeslot.Interval{Start: tod(t, start), End: tod(t, end)}
}

// Mondays and Tuesdays in January 2025.
var (
	monday  = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
)

func window(t *testing.T, doctorID uuid.UUID, day time.Weekday, start, end string, buffer int) *model.AvailabilityWindow {
	t.Helper()
	return &model.AvailabilityWindow{
		ID:                  uuid.New(),
		DoctorID:            doctorID,
		DayOfWeek:           day,
		StartTime:           tod(t, start),
		EndTime:             tod(t, end),
		SlotDurationMinutes: 30,
		BufferMinutes:       buffer,
	}
}

func appointment(t *testing.T, doctorID uuid.UUID, date time.Time, start, end string) *model.Appointment {
	t.Helper()
	return &model.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctorID,
		PatientID:       uuid.New(),
		AppointmentDate: date,
		StartTime:       tod(t, start),
		EndTime:         tod(t, end),
		Status:          model.AppointmentStatusConfirmed,
		Reason:          "checkup",
	}
}

func newChecker(availability *fakeAvailabilityRepo, appointments *fakeAppointmentRepo) *ConflictChecker {
	return NewConflictChecker(availability, appointments)
}

func TestCheckRejectsSlotWithinBufferOfExistingBooking(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	// Window Mon 09:00-12:00 with a 10 minute buffer, existing booking
	// 10:00-10:30. A request 5 minutes after the booking ends must be
	// rejected.
	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 10)))
	require.NoError(t, appointments.Create(context.Background(),
		appointment(t, doctorID, monday, "10:00", "10:30")))

	checker := newChecker(availability, appointments)
	_, err := checker.Check(context.Background(), doctorID, monday, interval(t, "10:35", "11:00"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotOverlap), "got %v", err)
}

func TestCheckAcceptsSlotClearOfBuffer(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 10)))
	require.NoError(t, appointments.Create(context.Background(),
		appointment(t, doctorID, monday, "10:00", "10:30")))

	checker := newChecker(availability, appointments)
	matched, err := checker.Check(context.Background(), doctorID, monday, interval(t, "10:50", "11:20"), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, matched.BufferMinutes)
}

func TestCheckRejectsSlotCrossingWindowEnd(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Tuesday, "09:00", "17:00", 0)))

	checker := newChecker(availability, appointments)
	_, err := checker.Check(context.Background(), doctorID, tuesday, interval(t, "16:45", "17:15"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindOutsideAvailability), "got %v", err)
}

func TestCheckRejectsDayWithoutWindows(t *testing.T) {
	doctorID := uuid.New()
	checker := newChecker(&fakeAvailabilityRepo{}, newFakeAppointmentRepo())

	wednesday := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	_, err := checker.Check(context.Background(), doctorID, wednesday, interval(t, "10:00", "10:30"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoAvailability), "got %v", err)
}

func TestCheckRequiresFullContainment(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	// Two adjacent windows; a slot spanning the boundary fits neither.
	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 0)))
	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "12:00", "15:00", 0)))

	checker := newChecker(availability, appointments)
	_, err := checker.Check(context.Background(), doctorID, monday, interval(t, "11:45", "12:15"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindOutsideAvailability), "got %v", err)

	// Fully inside the second window is fine.
	_, err = checker.Check(context.Background(), doctorID, monday, interval(t, "12:00", "12:30"), nil)
	assert.NoError(t, err)
}

func TestCheckExcludesAppointmentFromItsOwnScan(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 10)))
	existing := appointment(t, doctorID, monday, "10:00", "10:30")
	require.NoError(t, appointments.Create(context.Background(), existing))

	checker := newChecker(availability, appointments)

	// Rescheduling onto its own slot collides without the exclusion.
	_, err := checker.Check(context.Background(), doctorID, monday, existing.Interval(), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotOverlap))

	_, err = checker.Check(context.Background(), doctorID, monday, existing.Interval(), &existing.ID)
	assert.NoError(t, err)
}

func TestCheckIgnoresCancelledAndCompleted(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 10)))

	cancelled := appointment(t, doctorID, monday, "10:00", "10:30")
	cancelled.Status = model.AppointmentStatusCancelled
	require.NoError(t, appointments.Create(context.Background(), cancelled))

	completed := appointment(t, doctorID, monday, "10:30", "11:00")
	completed.Status = model.AppointmentStatusCompleted
	require.NoError(t, appointments.Create(context.Background(), completed))

	checker := newChecker(availability, appointments)
	_, err := checker.Check(context.Background(), doctorID, monday, interval(t, "10:00", "10:30"), nil)
	assert.NoError(t, err)
}

func TestCheckOnlyBuffersTheCandidate(t *testing.T) {
	doctorID := uuid.New()
	availability := &fakeAvailabilityRepo{}
	appointments := newFakeAppointmentRepo()

	require.NoError(t, availability.Create(context.Background(),
		window(t, doctorID, time.Monday, "09:00", "12:00", 10)))
	require.NoError(t, appointments.Create(context.Background(),
		appointment(t, doctorID, monday, "10:00", "10:30")))

	checker := newChecker(availability, appointments)

	// Exactly at the buffer boundary: candidate start 10:40, buffered
	// start 10:30, which no longer falls inside the half-open existing
	// interval. Accepted.
	_, err := checker.Check(context.Background(), doctorID, monday, interval(t, "10:40", "11:10"), nil)
	assert.NoError(t, err)

	// One minute closer and the buffered start lands inside. Rejected.
	_, err = checker.Check(context.Background(), doctorID, monday, interval(t, "10:39", "11:09"), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotOverlap))
}
