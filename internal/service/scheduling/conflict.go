package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/repository"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/timeslot"
)

// ConflictChecker decides whether a candidate slot is both inside a doctor's
// declared hours and clear of existing bookings.
type ConflictChecker struct {
	availability repository.AvailabilityRepository
	appointments repository.AppointmentRepository
}

func NewConflictChecker(availability repository.AvailabilityRepository, appointments repository.AppointmentRepository) *ConflictChecker {
	return &ConflictChecker{
		availability: availability,
		appointments: appointments,
	}
}

// Check validates the slot against the doctor's windows for the date's
// weekday, then against that day's active bookings with the matched
// window's buffer applied to the candidate. excludeID omits one appointment
// from the scan so a reschedule does not collide with itself. On success
// the matched window is returned for its buffer and slot-length metadata.
func (c *ConflictChecker) Check(ctx context.Context, doctorID uuid.UUID, date time.Time, slot timeslot.Interval, excludeID *uuid.UUID) (*model.AvailabilityWindow, error) {
	windows, err := c.availability.ListForDay(ctx, doctorID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, apperrors.NoAvailability(
			fmt.Sprintf("doctor has no availability on %s", date.Weekday()))
	}

	window := matchWindow(windows, slot)
	if window == nil {
		return nil, apperrors.OutsideAvailability(
			"requested slot is outside the doctor's hours")
	}

	existing, err := c.appointments.ListActiveForDay(ctx, doctorID, date, excludeID)
	if err != nil {
		return nil, err
	}

	buffered := slot.Buffered(window.BufferMinutes)
	for _, appointment := range existing {
		if conflictsWith(buffered, appointment.Interval()) {
			return nil, apperrors.SlotOverlap(
				fmt.Sprintf("requested slot conflicts with an existing booking at %s", appointment.Interval()))
		}
	}

	return window, nil
}

// matchWindow returns the first window fully containing the slot. Partial
// fits, including slots spanning two adjacent windows, do not count.
func matchWindow(windows []*model.AvailabilityWindow, slot timeslot.Interval) *model.AvailabilityWindow {
	for _, w := range windows {
		if w.Interval().ContainsInterval(slot) {
			return w
		}
	}
	return nil
}

// conflictsWith applies the engine's three-condition overlap test: the
// buffered candidate's start or end falls inside the existing booking, or
// the existing booking's start falls inside the buffered candidate. Only
// the candidate carries the buffer; existing bookings are compared raw.
func conflictsWith(buffered, existing timeslot.Interval) bool {
	return existing.Contains(buffered.Start) ||
		existing.Contains(buffered.End) ||
		buffered.Contains(existing.Start)
}
