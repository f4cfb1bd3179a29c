package appointment

import (
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain"
)

// transitions is the full appointment state graph. The confirmed self-loop
// lets a reschedule ride on an otherwise unchanged confirmed appointment;
// pending appointments can never jump straight to completed.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether the edge from -> to exists in the state graph.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change.
func (a *Appointment) Transition(to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !CanTransition(a.Status, to) {
		return ErrInvalidStatusTransition
	}
	a.Status = to
	return nil
}

// CanModify is the authorization matrix for status changes and reschedules:
// patients never modify appointments (they only create pending ones for
// themselves), doctors modify only their own calendar, admins modify any.
func CanModify(actor domain.Actor, a *Appointment) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDoctor:
		return a.DoctorID == actor.ID
	default:
		return false
	}
}

// CanCreateFor reports whether the actor may book an appointment for the
// given patient. Patients book only for themselves; staff book for anyone.
func CanCreateFor(actor domain.Actor, patientID uuid.UUID) bool {
	if actor.Role == domain.RolePatient {
		return patientID == actor.ID
	}
	return true
}
