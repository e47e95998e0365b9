package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/pkg/timeslot"
)

type AppointmentStatus string

const (
	AppointmentStatusPending         AppointmentStatus = "pending"
	AppointmentStatusConfirmed       AppointmentStatus = "confirmed"
	AppointmentStatusInProgress      AppointmentStatus = "in_progress"
	AppointmentStatusCompleted       AppointmentStatus = "completed"
	AppointmentStatusCancelled       AppointmentStatus = "cancelled"
	AppointmentStatusNoShow          AppointmentStatus = "no_show"
	AppointmentStatusRescheduled     AppointmentStatus = "rescheduled"
	AppointmentStatusRejected        AppointmentStatus = "rejected"
	AppointmentStatusAwaitingPayment AppointmentStatus = "awaiting_payment"
)

var appointmentStatuses = map[AppointmentStatus]struct{}{
	AppointmentStatusPending:         {},
	AppointmentStatusConfirmed:       {},
	AppointmentStatusInProgress:      {},
	AppointmentStatusCompleted:       {},
	AppointmentStatusCancelled:       {},
	AppointmentStatusNoShow:          {},
	AppointmentStatusRescheduled:     {},
	AppointmentStatusRejected:        {},
	AppointmentStatusAwaitingPayment: {},
}

// Valid reports closed-set membership. There is deliberately no transition
// graph beyond this check: any valid status may follow any other.
func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentStatuses[s]
	return ok
}

// ActiveForConflicts reports whether an appointment in this status still
// blocks its time slot.
func (s AppointmentStatus) ActiveForConflicts() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusCompleted
}

type Appointment struct {
	ID              uuid.UUID          `db:"id" json:"id"`
	DoctorID        uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	PatientID       uuid.UUID          `db:"patient_id" json:"patient_id"`
	AppointmentDate time.Time          `db:"appointment_date" json:"appointment_date"`
	StartTime       timeslot.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime         timeslot.TimeOfDay `db:"end_time" json:"end_time"`
	Status          AppointmentStatus  `db:"status" json:"status"`
	Reason          string             `db:"reason" json:"reason"`
	AddedBy         string             `db:"added_by" json:"added_by,omitempty"`
	VideoCallLink   *string            `db:"video_call_link" json:"video_call_link,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// Interval returns the appointment's time-of-day range.
func (a *Appointment) Interval() timeslot.Interval {
	return timeslot.Interval{Start: a.StartTime, End: a.EndTime}
}

type CreateAppointmentRequest struct {
	DoctorID  uuid.UUID          `json:"doctor_id" binding:"required"`
	PatientID uuid.UUID          `json:"patient_id" binding:"required"`
	Date      time.Time          `json:"appointment_date" binding:"required"`
	StartTime timeslot.TimeOfDay `json:"start_time"`
	EndTime   timeslot.TimeOfDay `json:"end_time"`
	Reason    string             `json:"reason" binding:"required,max=500"`
	Status    AppointmentStatus  `json:"status" binding:"omitempty,appointment_status"`
	AddedBy   string             `json:"added_by"`
}

type RescheduleAppointmentRequest struct {
	Date      time.Time          `json:"appointment_date" binding:"required"`
	StartTime timeslot.TimeOfDay `json:"start_time"`
	EndTime   timeslot.TimeOfDay `json:"end_time"`
	Status    AppointmentStatus  `json:"status" binding:"omitempty,appointment_status"`
}

// UpdateAppointmentRequest is the narrow patch used for simple field edits.
// Nil pointers mean the field was not supplied.
type UpdateAppointmentRequest struct {
	ScheduledTime *time.Time         `json:"scheduled_time"`
	Status        *AppointmentStatus `json:"status"`
	VideoCallLink *string            `json:"video_call_link"`
}

// AppointmentRange selects which slice of a doctor's or patient's
// appointments a listing returns.
type AppointmentRange string

const (
	RangeToday     AppointmentRange = "today"
	RangeUpcoming  AppointmentRange = "upcoming"
	RangePast      AppointmentRange = "past"
	RangeCancelled AppointmentRange = "cancelled"
)

func (r AppointmentRange) Valid() bool {
	switch r {
	case RangeToday, RangeUpcoming, RangePast, RangeCancelled:
		return true
	}
	return false
}

// AppointmentDetails is an appointment joined with display names for
// listings.
type AppointmentDetails struct {
	Appointment
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
	PatientName string `db:"patient_name" json:"patient_name"`
}
