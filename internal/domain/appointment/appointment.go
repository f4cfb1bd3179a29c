package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
// Cancellation is a status, not a deletion: cancelled rows stay put and
// simply stop blocking the doctor's calendar.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

const dayKeyFormat = "2006-01-02"

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`

	Date      time.Time `gorm:"column:date;type:date;not null;index" json:"date"`
	StartTime TimeOfDay `gorm:"column:start_time;type:varchar(5);not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"column:end_time;type:varchar(5);not null" json:"end_time"`

	Status Status `gorm:"column:status;type:varchar(30);not null;default:'pending';index" json:"status"`

	Reason string `gorm:"column:reason;type:text" json:"reason,omitempty"`
	Notes  string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	// CreatedBy may differ from PatientID when staff book on a patient's behalf.
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// DayKey is the calendar-day grouping key used by conflict checks and analytics.
func (a *Appointment) DayKey() string {
	return a.Date.Format(dayKeyFormat)
}

// OverlapsInterval reports whether the appointment's slot intersects the
// candidate half-open interval on the same day.
func (a *Appointment) OverlapsInterval(start, end TimeOfDay) bool {
	return Overlaps(a.StartTime, a.EndTime, start, end)
}

// NormalizeDate truncates a timestamp to its calendar day in UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type CreateAppointmentCommand struct {
	// PatientID defaults to the actor for patient callers; a patient naming
	// anyone else is rejected by CanCreateFor. Required for staff booking on
	// a patient's behalf.
	PatientID *uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	StartTime TimeOfDay
	EndTime   TimeOfDay
	Reason    string
}

// UpdateAppointmentCommand combines an optional status transition with an
// optional reschedule. The two are validated together and persisted
// atomically: either both apply or neither does.
type UpdateAppointmentCommand struct {
	Status    *Status
	Date      *time.Time
	StartTime *TimeOfDay
	EndTime   *TimeOfDay
	Notes     *string
}

// Reschedules reports whether the command touches the appointment's slot.
func (c *UpdateAppointmentCommand) Reschedules() bool {
	return c.Date != nil || c.StartTime != nil || c.EndTime != nil
}

type ListAppointmentsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
}
