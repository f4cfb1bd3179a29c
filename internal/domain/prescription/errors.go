package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrNoMedications        = errors.New("prescription requires at least one medication")
	ErrAppointmentNotReady  = errors.New("prescriptions can only be issued from a confirmed or completed appointment")
)
