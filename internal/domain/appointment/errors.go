package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotConflict            = errors.New("time slot already booked")
	ErrSlotTaken               = errors.New("identical time slot already exists")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrEndBeforeStart          = errors.New("start time must be before end time")
	ErrMalformedTime           = errors.New("malformed time, expected HH:MM")
)
