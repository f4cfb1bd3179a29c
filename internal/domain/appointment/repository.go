package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment. Returns ErrSlotTaken when the
	// (doctor, date, start, end) unique index rejects the row — the last-line
	// serialization guard beneath the application-level conflict check.
	Create(ctx context.Context, a *Appointment) error

	// GetByID retrieves an appointment by primary key.
	// Returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Update persists the appointment's current state as one write, so a
	// combined status change and reschedule either lands whole or not at all.
	// Subject to the same ErrSlotTaken guard as Create.
	Update(ctx context.Context, a *Appointment) error

	// ListByDoctorAndDate returns the doctor's non-cancelled appointments on
	// one calendar day. Feeds the overlap scan in the booking service.
	ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)

	// List returns appointments matching the query, ordered by date then
	// start time.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)
}
