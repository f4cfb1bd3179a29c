// Command seed populates a development database with demo users and
// appointments. It is destructive only in the sense of adding rows; it never
// truncates existing data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/internal/repository"
	"github.com/clinicdesk/clinicdesk/pkg/database"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

const seedPassword = "password123"

var specializations = []string{
	"Cardiology", "Dermatology", "Pediatrics", "Orthopedics",
	"Neurology", "General Practice", "Psychiatry", "Oncology",
}

func main() {
	doctors := flag.Int("doctors", 5, "number of doctors to create")
	patients := flag.Int("patients", 20, "number of patients to create")
	appts := flag.Int("appointments", 40, "number of appointments to create")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("database migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	admin := &user.User{
		Role:         domain.RoleAdmin,
		Name:         "Admin",
		Email:        "admin@clinicdesk.local",
		PasswordHash: string(hash),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		existing, lookupErr := userRepo.GetByEmail(ctx, admin.Email)
		if lookupErr != nil {
			log.Fatal("create admin", zap.Error(err))
		}
		admin = existing
		log.Info("admin already present", zap.String("email", admin.Email))
	} else {
		log.Info("created admin", zap.String("email", admin.Email))
	}

	doctorIDs := make([]uuid.UUID, 0, *doctors)
	for i := 0; i < *doctors; i++ {
		d := &user.User{
			Role:           domain.RoleDoctor,
			Name:           "Dr. " + gofakeit.Name(),
			Email:          fmt.Sprintf("doctor%d@clinicdesk.local", i+1),
			PasswordHash:   string(hash),
			Phone:          gofakeit.Phone(),
			Specialization: specializations[i%len(specializations)],
			LicenseNumber:  fmt.Sprintf("LIC-%06d", gofakeit.Number(100000, 999999)),
			AvailabilitySlots: []user.AvailabilitySlot{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
				{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00"},
				{DayOfWeek: 5, StartTime: "09:00", EndTime: "13:00"},
			},
		}
		if err := userRepo.Create(ctx, d); err != nil {
			log.Warn("skip doctor", zap.String("email", d.Email), zap.Error(err))
			continue
		}
		doctorIDs = append(doctorIDs, d.ID)
	}
	log.Info("created doctors", zap.Int("count", len(doctorIDs)))

	patientIDs := make([]uuid.UUID, 0, *patients)
	for i := 0; i < *patients; i++ {
		dob := gofakeit.DateRange(
			time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		p := &user.User{
			Role:         domain.RolePatient,
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("patient%d@clinicdesk.local", i+1),
			PasswordHash: string(hash),
			Phone:        gofakeit.Phone(),
			DateOfBirth:  &dob,
			Gender:       randomGender(),
			Address:      gofakeit.Address().Address,
		}
		if err := userRepo.Create(ctx, p); err != nil {
			log.Warn("skip patient", zap.String("email", p.Email), zap.Error(err))
			continue
		}
		patientIDs = append(patientIDs, p.ID)
	}
	log.Info("created patients", zap.Int("count", len(patientIDs)))

	if len(doctorIDs) == 0 || len(patientIDs) == 0 {
		log.Info("nothing to book against, done")
		return
	}

	statuses := []appointment.Status{
		appointment.StatusPending,
		appointment.StatusConfirmed,
		appointment.StatusCompleted,
		appointment.StatusCancelled,
	}

	created := 0
	for i := 0; i < *appts; i++ {
		day := appointment.NormalizeDate(
			time.Now().UTC().AddDate(0, 0, gofakeit.Number(-14, 14)),
		)
		// Half-hour grid between 09:00 and 17:00. Conflicting slots are
		// rejected by the unique index and simply skipped.
		start := appointment.TimeOfDay(9*60 + 30*gofakeit.Number(0, 15))
		a := &appointment.Appointment{
			DoctorID:  doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)],
			PatientID: patientIDs[gofakeit.Number(0, len(patientIDs)-1)],
			Date:      day,
			StartTime: start,
			EndTime:   start + 30,
			Status:    statuses[gofakeit.Number(0, len(statuses)-1)],
			Reason:    gofakeit.Sentence(6),
			CreatedBy: admin.ID,
		}
		if err := apptRepo.Create(ctx, a); err != nil {
			log.Debug("skip appointment", zap.Error(err))
			continue
		}
		created++
	}
	log.Info("created appointments", zap.Int("count", created))
	log.Info("seed complete", zap.String("password", seedPassword))
}

func randomGender() user.Gender {
	switch gofakeit.Number(0, 2) {
	case 0:
		return user.GenderMale
	case 1:
		return user.GenderFemale
	default:
		return user.GenderOther
	}
}
