package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one line item on a prescription.
type Medication struct {
	Name         string `json:"name"`
	Dose         string `json:"dose,omitempty"`      // e.g. "500mg"
	Frequency    string `json:"frequency,omitempty"` // e.g. "twice daily"
	Duration     string `json:"duration,omitempty"`  // e.g. "7 days"
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is issued from an appointment by its owning doctor and is a
// downstream consumer of appointment data: it never feeds back into
// scheduling decisions.
type Prescription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;index" json:"appointment_id"`
	DoctorID      uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`

	Medications []Medication `gorm:"column:medications;serializer:json" json:"medications"`
	Notes       string       `gorm:"column:notes;type:text" json:"notes,omitempty"`

	IssuedAt time.Time `gorm:"column:issued_at;not null;index" json:"issued_at"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

type CreatePrescriptionCommand struct {
	AppointmentID uuid.UUID
	Medications   []Medication
	Notes         string
}

type ListPrescriptionsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}
