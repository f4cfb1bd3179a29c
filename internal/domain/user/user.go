package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, "":
		return true
	}
	return false
}

// AvailabilitySlot is a weekly recurring window during which a doctor accepts
// bookings. Informational only: conflict checking is against committed
// appointments, not these windows.
type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime string `json:"start_time"`  // "HH:MM"
	EndTime   string `json:"end_time"`
}

// User is every principal in the system: patients, doctors and admins share
// one record type and are distinguished by role.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Role         domain.Role `gorm:"column:role;type:varchar(30);not null;index"`
	Name         string      `gorm:"column:name;type:varchar(200);not null"`
	Email        string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	Phone          string     `gorm:"column:phone;type:varchar(20)"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth;type:date"`
	Gender         Gender     `gorm:"column:gender;type:varchar(20)"`
	Address        string     `gorm:"column:address;type:text"`
	MedicalHistory string     `gorm:"column:medical_history;type:text"`

	// Doctor-only fields
	Specialization    string             `gorm:"column:specialization;type:varchar(100)"`
	LicenseNumber     string             `gorm:"column:license_number;type:varchar(50)"`
	AvailabilitySlots []AvailabilitySlot `gorm:"column:availability_slots;serializer:json"`

	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"`
}

func (User) TableName() string {
	return "clinical.users"
}

// IsDoctor reports whether the record may be booked against.
func (u *User) IsDoctor() bool {
	return u.Role == domain.RoleDoctor
}

// UpdateUserCommand carries partial profile updates. The password hash is
// deliberately absent: it can only change through the credential flow.
type UpdateUserCommand struct {
	Name              *string
	Phone             *string
	DateOfBirth       *time.Time
	Gender            *Gender
	Address           *string
	MedicalHistory    *string
	Specialization    *string
	LicenseNumber     *string
	AvailabilitySlots []AvailabilitySlot
}

type ListUsersQuery struct {
	Role *domain.Role
}
