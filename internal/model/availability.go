package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/pkg/timeslot"
)

// AvailabilityWindow is a recurring weekly range in which a doctor accepts
// appointments. BufferMinutes is the minimum gap required around any
// appointment scheduled from this window.
type AvailabilityWindow struct {
	ID                  uuid.UUID          `db:"id" json:"id"`
	DoctorID            uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	DayOfWeek           time.Weekday       `db:"day_of_week" json:"day_of_week"`
	StartTime           timeslot.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime             timeslot.TimeOfDay `db:"end_time" json:"end_time"`
	SlotDurationMinutes int                `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	BufferMinutes       int                `db:"buffer_minutes" json:"buffer_minutes"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `db:"updated_at" json:"updated_at"`
}

// Interval returns the window's raw time-of-day range.
func (w *AvailabilityWindow) Interval() timeslot.Interval {
	return timeslot.Interval{Start: w.StartTime, End: w.EndTime}
}

// BufferedInterval returns the window expanded by its own buffer on both
// ends, as used when checking sibling windows for conflicts.
func (w *AvailabilityWindow) BufferedInterval() timeslot.Interval {
	return w.Interval().Buffered(w.BufferMinutes)
}

type SetAvailabilityRequest struct {
	AvailabilityID      *uuid.UUID         `json:"availability_id"`
	DoctorID            uuid.UUID          `json:"doctor_id" binding:"required"`
	DayOfWeek           time.Weekday       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime           timeslot.TimeOfDay `json:"start_time"`
	EndTime             timeslot.TimeOfDay `json:"end_time"`
	SlotDurationMinutes int                `json:"slot_duration_minutes" binding:"required,min=1,max=1440"`
	BufferMinutes       int                `json:"buffer_minutes" binding:"min=0,max=1440"`
}
