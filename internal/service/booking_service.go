package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// BookingService orchestrates appointment creation and modification: it
// resolves the parties, runs the conflict check, applies the lifecycle rules
// and hands committed changes to the notification worker.
type BookingService struct {
	repo     appointment.Repository
	userRepo user.Repository
	notify   *NotifyService
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewBookingService(
	repo appointment.Repository,
	userRepo user.Repository,
	notify *NotifyService,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		userRepo: userRepo,
		notify:   notify,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
	}
}

// hasConflict scans the doctor's non-cancelled bookings on one day for an
// overlap with the candidate interval. Cardinality per doctor-day is small,
// so a linear scan over the fetched rows is enough. A failed read aborts the
// booking: absence of data is never treated as absence of conflict.
func (s *BookingService) hasConflict(
	ctx context.Context,
	doctorID uuid.UUID,
	date time.Time,
	start, end appointment.TimeOfDay,
	excludeID *uuid.UUID,
) (bool, error) {
	existing, err := s.repo.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("checking conflicts: %w", err)
	}

	for _, other := range existing {
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if other.Status == appointment.StatusCancelled {
			continue
		}
		if other.OverlapsInterval(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingService) CreateAppointment(
	ctx context.Context,
	actor domain.Actor,
	cmd *appointment.CreateAppointmentCommand,
	ip string,
) (*appointment.Appointment, error) {
	// A patient booking without naming anyone books for themselves; staff
	// must name the patient. The creation matrix then has the final say.
	patientID := actor.ID
	if cmd.PatientID != nil && *cmd.PatientID != uuid.Nil {
		patientID = *cmd.PatientID
	} else if actor.Role != domain.RolePatient {
		return nil, &ValidationError{Fields: []string{"patient_id is required"}}
	}
	if !appointment.CanCreateFor(actor, patientID) {
		return nil, ErrForbidden
	}

	if cmd.StartTime >= cmd.EndTime {
		return nil, appointment.ErrEndBeforeStart
	}
	if cmd.Date.IsZero() {
		return nil, &ValidationError{Fields: []string{"date is required"}}
	}

	doctor, err := s.userRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidDoctor
		}
		return nil, fmt.Errorf("resolving doctor: %w", err)
	}
	if !doctor.IsDoctor() {
		return nil, ErrInvalidDoctor
	}

	date := appointment.NormalizeDate(cmd.Date)

	conflict, err := s.hasConflict(ctx, cmd.DoctorID, date, cmd.StartTime, cmd.EndTime, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		s.metrics.SlotConflictsTotal.Inc()
		return nil, appointment.ErrSlotConflict
	}

	a := &appointment.Appointment{
		PatientID: patientID,
		DoctorID:  cmd.DoctorID,
		Date:      date,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		Status:    appointment.StatusPending,
		Reason:    cmd.Reason,
		CreatedBy: actor.ID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			// A concurrent write slipped past the pre-check; the unique slot
			// index caught it. Same conflict class for the caller.
			s.metrics.SlotConflictsTotal.Inc()
			return nil, err
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()

	s.notify.Enqueue(Email{
		To:      doctor.Email,
		Subject: "New appointment request",
		Body:    fmt.Sprintf("Patient requested appointment on %s at %s", a.DayKey(), a.StartTime),
	})

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

// UpdateAppointment applies a combined status change and/or reschedule.
// Every rule is checked before anything is written, so a rejected update
// leaves the stored appointment untouched.
func (s *BookingService) UpdateAppointment(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
	cmd *appointment.UpdateAppointmentCommand,
	ip string,
) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.CanModify(actor, a) {
		return nil, ErrForbidden
	}

	if cmd.Status != nil {
		if err := a.Transition(*cmd.Status); err != nil {
			return nil, err
		}
	}

	if cmd.Reschedules() {
		// A reschedule may accompany any update that leaves the appointment
		// in a non-terminal state.
		if a.Status.IsTerminal() {
			return nil, appointment.ErrInvalidStatusTransition
		}

		date, start, end := a.Date, a.StartTime, a.EndTime
		if cmd.Date != nil {
			date = appointment.NormalizeDate(*cmd.Date)
		}
		if cmd.StartTime != nil {
			start = *cmd.StartTime
		}
		if cmd.EndTime != nil {
			end = *cmd.EndTime
		}
		if start >= end {
			return nil, appointment.ErrEndBeforeStart
		}

		conflict, err := s.hasConflict(ctx, a.DoctorID, date, start, end, &a.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			s.metrics.SlotConflictsTotal.Inc()
			return nil, appointment.ErrSlotConflict
		}

		a.Date, a.StartTime, a.EndTime = date, start, end
	}

	if cmd.Notes != nil {
		a.Notes = *cmd.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			s.metrics.SlotConflictsTotal.Inc()
			return nil, err
		}
		s.log.Error("failed to update appointment",
			zap.String("appointment_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	if cmd.Status != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}

	s.notifyCounterparty(ctx, actor, a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"status":%q}`, a.Status),
	})

	return a, nil
}

// notifyCounterparty addresses the update notice to whichever party did not
// initiate the change: doctors notify the patient, everyone else notifies
// the doctor.
func (s *BookingService) notifyCounterparty(ctx context.Context, actor domain.Actor, a *appointment.Appointment) {
	recipientID := a.DoctorID
	if actor.Role == domain.RoleDoctor {
		recipientID = a.PatientID
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		s.log.Warn("could not resolve notification recipient",
			zap.String("user_id", recipientID.String()),
			zap.Error(err),
		)
		return
	}

	s.notify.Enqueue(Email{
		To:      recipient.Email,
		Subject: fmt.Sprintf("Appointment %s", a.Status),
		Body:    fmt.Sprintf("Appointment updated to %s", a.Status),
	})
}

// ListAppointments returns the actor's visible appointments: patients see
// their own, doctors their own calendar, admins everything.
func (s *BookingService) ListAppointments(
	ctx context.Context,
	actor domain.Actor,
	q *appointment.ListAppointmentsQuery,
) ([]*appointment.Appointment, error) {
	switch actor.Role {
	case domain.RolePatient:
		q.PatientID = &actor.ID
		q.DoctorID = nil
	case domain.RoleDoctor:
		q.DoctorID = &actor.ID
		q.PatientID = nil
	}
	return s.repo.List(ctx, q)
}

// AnalyticsSummary is the admin reporting view: per-day booking counts
// grouped by status, recomputed from the current appointment set on demand.
func (s *BookingService) AnalyticsSummary(ctx context.Context, actor domain.Actor) ([]appointment.DailySummary, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	appts, err := s.repo.List(ctx, &appointment.ListAppointmentsQuery{})
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}
	return appointment.Summarize(appts), nil
}
