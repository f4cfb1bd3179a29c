package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/prescription"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type PrescriptionService struct {
	repo      prescription.Repository
	apptRepo  appointment.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	apptRepo appointment.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:      repo,
		apptRepo:  apptRepo,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// CreatePrescription issues a prescription from an appointment. Only the
// appointment's own doctor or an admin may issue, and only once the
// appointment has been confirmed or completed.
func (s *PrescriptionService) CreatePrescription(
	ctx context.Context,
	actor domain.Actor,
	cmd *prescription.CreatePrescriptionCommand,
	ip string,
) (*prescription.Prescription, error) {
	if len(cmd.Medications) == 0 {
		return nil, prescription.ErrNoMedications
	}

	appt, err := s.apptRepo.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && appt.DoctorID != actor.ID {
		return nil, ErrForbidden
	}

	if appt.Status != appointment.StatusConfirmed && appt.Status != appointment.StatusCompleted {
		return nil, prescription.ErrAppointmentNotReady
	}

	p := &prescription.Prescription{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Medications:   cmd.Medications,
		Notes:         cmd.Notes,
		IssuedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.collector.PrescriptionsIssued.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "prescription",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, actor domain.Actor, id uuid.UUID) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RolePatient:
		if p.PatientID != actor.ID {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if p.DoctorID != actor.ID {
			return nil, ErrForbidden
		}
	}

	return p, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, actor domain.Actor) ([]*prescription.Prescription, error) {
	q := &prescription.ListPrescriptionsQuery{}
	switch actor.Role {
	case domain.RolePatient:
		q.PatientID = &actor.ID
	case domain.RoleDoctor:
		q.DoctorID = &actor.ID
	}
	return s.repo.List(ctx, q)
}
