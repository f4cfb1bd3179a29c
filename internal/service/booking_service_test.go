package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// testMetrics is shared across the package: prometheus collectors register
// once per process.
var testMetrics = metrics.NewCollector("clinicdesk_test")

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id uuid.UUID, cmd *user.UpdateUserCommand) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	if cmd.Name != nil {
		u.Name = *cmd.Name
	}
	return u, nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, q *user.ListUsersQuery) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if q != nil && q.Role != nil && u.Role != *q.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) slotTaken(a *appointment.Appointment) bool {
	for _, other := range r.appts {
		if other.ID == a.ID || other.Status == appointment.StatusCancelled {
			continue
		}
		if other.DoctorID == a.DoctorID &&
			other.Date.Equal(a.Date) &&
			other.StartTime == a.StartTime &&
			other.EndTime == a.EndTime {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status != appointment.StatusCancelled && r.slotTaken(a) {
		return appointment.ErrSlotTaken
	}
	stored := *a
	r.appts[a.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.appts[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	if a.Status != appointment.StatusCancelled && r.slotTaken(a) {
		return appointment.ErrSlotTaken
	}
	stored := *a
	r.appts[a.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) ListByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID || a.Status == appointment.StatusCancelled {
			continue
		}
		if !appointment.NormalizeDate(a.Date).Equal(appointment.NormalizeDate(date)) {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if q != nil {
			if q.PatientID != nil && a.PatientID != *q.PatientID {
				continue
			}
			if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
				continue
			}
			if q.Status != nil && a.Status != *q.Status {
				continue
			}
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

// brokenAppointmentRepo simulates persistence failures: reads and writes can
// be forced to fail while delegating everything else to the in-memory fake.
type brokenAppointmentRepo struct {
	*fakeAppointmentRepo
	listErr   error
	createErr error
}

func (r *brokenAppointmentRepo) ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.fakeAppointmentRepo.ListByDoctorAndDate(ctx, doctorID, date)
}

func (r *brokenAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.fakeAppointmentRepo.Create(ctx, a)
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

type bookingFixture struct {
	svc       *BookingService
	repo      *fakeAppointmentRepo
	doctor    *user.User
	patient   *user.User
	doctorAct domain.Actor
	patient2  *user.User
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	log := zap.NewNop()

	doctor := &user.User{ID: uuid.New(), Role: domain.RoleDoctor, Name: "Dr. Reyes", Email: "reyes@clinic.test"}
	patient := &user.User{ID: uuid.New(), Role: domain.RolePatient, Name: "Alex", Email: "alex@clinic.test"}
	patient2 := &user.User{ID: uuid.New(), Role: domain.RolePatient, Name: "Sam", Email: "sam@clinic.test"}

	userRepo := newFakeUserRepo(doctor, patient, patient2)
	apptRepo := newFakeAppointmentRepo()

	auditSvc := NewAuditService(fakeAuditRepo{}, log)
	notifySvc := NewNotifyService(&LogMailer{Log: log}, log, testMetrics, 16)
	t.Cleanup(func() {
		notifySvc.Shutdown()
		auditSvc.Shutdown()
	})

	svc := NewBookingService(apptRepo, userRepo, notifySvc, auditSvc, testMetrics, log)
	return &bookingFixture{
		svc:       svc,
		repo:      apptRepo,
		doctor:    doctor,
		patient:   patient,
		patient2:  patient2,
		doctorAct: domain.Actor{ID: doctor.ID, Role: domain.RoleDoctor},
	}
}

func tod(h, m int) appointment.TimeOfDay { return appointment.TimeOfDay(h*60 + m) }

func (f *bookingFixture) book(t *testing.T, start, end appointment.TimeOfDay) *appointment.Appointment {
	t.Helper()
	a, err := f.svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: start,
			EndTime:   end,
			Reason:    "checkup",
		},
		"127.0.0.1",
	)
	if err != nil {
		t.Fatalf("booking %v-%v: %v", start, end, err)
	}
	return a
}

func TestCreateAppointment(t *testing.T) {
	f := newBookingFixture(t)

	a := f.book(t, tod(10, 0), tod(10, 30))
	if a.Status != appointment.StatusPending {
		t.Errorf("new appointment status = %s, want pending", a.Status)
	}
	if a.PatientID != f.patient.ID {
		t.Errorf("patient actor not forced onto the booking: %s", a.PatientID)
	}
}

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, tod(10, 0), tod(10, 30))

	_, err := f.svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient2.ID, Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 15),
			EndTime:   tod(10, 45),
		},
		"127.0.0.1",
	)
	if !errors.Is(err, appointment.ErrSlotConflict) {
		t.Fatalf("overlapping booking: got %v, want ErrSlotConflict", err)
	}
}

func TestCreateAppointmentAllowsBackToBack(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, tod(10, 0), tod(10, 30))
	f.book(t, tod(10, 30), tod(11, 0))
}

func TestCancelledSlotIsReusable(t *testing.T) {
	f := newBookingFixture(t)
	a := f.book(t, tod(10, 0), tod(10, 30))

	cancelled := appointment.StatusCancelled
	if _, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{Status: &cancelled}, "127.0.0.1",
	); err != nil {
		t.Fatalf("cancelling: %v", err)
	}

	// Same slot again.
	f.book(t, tod(10, 0), tod(10, 30))
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	patientActor := domain.Actor{ID: f.patient.ID, Role: domain.RolePatient}
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateAppointment(ctx, patientActor, &appointment.CreateAppointmentCommand{
		DoctorID: f.doctor.ID, Date: date, StartTime: tod(11, 0), EndTime: tod(10, 0),
	}, "")
	if !errors.Is(err, appointment.ErrEndBeforeStart) {
		t.Errorf("inverted interval: got %v, want ErrEndBeforeStart", err)
	}

	_, err = f.svc.CreateAppointment(ctx, patientActor, &appointment.CreateAppointmentCommand{
		DoctorID: f.doctor.ID, Date: date, StartTime: tod(10, 0), EndTime: tod(10, 0),
	}, "")
	if !errors.Is(err, appointment.ErrEndBeforeStart) {
		t.Errorf("zero-length interval: got %v, want ErrEndBeforeStart", err)
	}

	// Booking against a patient as the doctor.
	_, err = f.svc.CreateAppointment(ctx, patientActor, &appointment.CreateAppointmentCommand{
		DoctorID: f.patient2.ID, Date: date, StartTime: tod(10, 0), EndTime: tod(10, 30),
	}, "")
	if !errors.Is(err, ErrInvalidDoctor) {
		t.Errorf("non-doctor target: got %v, want ErrInvalidDoctor", err)
	}

	// Unknown doctor id.
	_, err = f.svc.CreateAppointment(ctx, patientActor, &appointment.CreateAppointmentCommand{
		DoctorID: uuid.New(), Date: date, StartTime: tod(10, 0), EndTime: tod(10, 30),
	}, "")
	if !errors.Is(err, ErrInvalidDoctor) {
		t.Errorf("unknown doctor: got %v, want ErrInvalidDoctor", err)
	}

	// Staff booking without naming a patient.
	_, err = f.svc.CreateAppointment(ctx, f.doctorAct, &appointment.CreateAppointmentCommand{
		DoctorID: f.doctor.ID, Date: date, StartTime: tod(10, 0), EndTime: tod(10, 30),
	}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("staff without patient_id: got %v, want ValidationError", err)
	}
}

func TestCreateAppointmentForOtherPatientForbidden(t *testing.T) {
	f := newBookingFixture(t)

	// A patient naming a different patient is blocked by the creation matrix.
	_, err := f.svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			PatientID: &f.patient2.ID,
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"127.0.0.1",
	)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient booking for someone else: got %v, want ErrForbidden", err)
	}

	// Naming themselves explicitly is fine.
	a, err := f.svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			PatientID: &f.patient.ID,
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"127.0.0.1",
	)
	if err != nil {
		t.Fatalf("patient booking for self by id: %v", err)
	}
	if a.PatientID != f.patient.ID {
		t.Fatalf("patient id = %s, want %s", a.PatientID, f.patient.ID)
	}
}

// newBrokenBookingService wires a booking service over a repo whose reads or
// writes can be forced to fail.
func newBrokenBookingService(t *testing.T, repo *brokenAppointmentRepo, users ...*user.User) *BookingService {
	t.Helper()
	log := zap.NewNop()
	auditSvc := NewAuditService(fakeAuditRepo{}, log)
	notifySvc := NewNotifyService(&LogMailer{Log: log}, log, testMetrics, 16)
	t.Cleanup(func() {
		notifySvc.Shutdown()
		auditSvc.Shutdown()
	})
	return NewBookingService(repo, newFakeUserRepo(users...), notifySvc, auditSvc, testMetrics, log)
}

func TestCreateAppointmentFailsClosedOnStorageError(t *testing.T) {
	doctor := &user.User{ID: uuid.New(), Role: domain.RoleDoctor, Email: "reyes@clinic.test"}
	repo := &brokenAppointmentRepo{
		fakeAppointmentRepo: newFakeAppointmentRepo(),
		listErr:             fmt.Errorf("%w: listing doctor bookings: connection refused", domain.ErrStorageUnavailable),
	}
	svc := newBrokenBookingService(t, repo, doctor)

	// An unreadable calendar must abort the booking, never pass as "no
	// conflict".
	_, err := svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: uuid.New(), Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"127.0.0.1",
	)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("conflict check on broken storage: got %v, want ErrStorageUnavailable", err)
	}
	if len(repo.appts) != 0 {
		t.Fatalf("booking persisted despite failed conflict check: %d rows", len(repo.appts))
	}
}

func TestCreateAppointmentDuplicateSlotBackstop(t *testing.T) {
	doctor := &user.User{ID: uuid.New(), Role: domain.RoleDoctor, Email: "reyes@clinic.test"}
	repo := &brokenAppointmentRepo{
		fakeAppointmentRepo: newFakeAppointmentRepo(),
		createErr:           appointment.ErrSlotTaken,
	}
	svc := newBrokenBookingService(t, repo, doctor)

	// A concurrent write can slip past the pre-check; the unique slot index
	// rejection must surface as the same conflict class.
	_, err := svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: uuid.New(), Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"127.0.0.1",
	)
	if !errors.Is(err, appointment.ErrSlotTaken) {
		t.Fatalf("racing insert: got %v, want ErrSlotTaken", err)
	}
}

func TestRescheduleFailsClosedOnStorageError(t *testing.T) {
	doctor := &user.User{ID: uuid.New(), Role: domain.RoleDoctor, Email: "reyes@clinic.test"}
	repo := &brokenAppointmentRepo{fakeAppointmentRepo: newFakeAppointmentRepo()}
	svc := newBrokenBookingService(t, repo, doctor)

	a, err := svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: uuid.New(), Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  doctor.ID,
			Date:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"127.0.0.1",
	)
	if err != nil {
		t.Fatal(err)
	}

	repo.listErr = fmt.Errorf("%w: listing doctor bookings: connection refused", domain.ErrStorageUnavailable)

	newStart, newEnd := tod(11, 0), tod(11, 30)
	_, err = svc.UpdateAppointment(
		context.Background(),
		domain.Actor{ID: doctor.ID, Role: domain.RoleDoctor},
		a.ID,
		&appointment.UpdateAppointmentCommand{StartTime: &newStart, EndTime: &newEnd},
		"",
	)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("reschedule on broken storage: got %v, want ErrStorageUnavailable", err)
	}

	stored, err := repo.fakeAppointmentRepo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.StartTime != tod(10, 0) || stored.EndTime != tod(10, 30) {
		t.Fatalf("failed reschedule mutated the slot: %v-%v", stored.StartTime, stored.EndTime)
	}
}

func TestUpdateAppointmentAuthorization(t *testing.T) {
	f := newBookingFixture(t)
	a := f.book(t, tod(10, 0), tod(10, 30))
	confirmed := appointment.StatusConfirmed

	// The patient who owns the appointment still may not modify it.
	_, err := f.svc.UpdateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		a.ID, &appointment.UpdateAppointmentCommand{Status: &confirmed}, "",
	)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient update: got %v, want ErrForbidden", err)
	}

	// Another doctor cannot touch this calendar.
	_, err = f.svc.UpdateAppointment(
		context.Background(),
		domain.Actor{ID: uuid.New(), Role: domain.RoleDoctor},
		a.ID, &appointment.UpdateAppointmentCommand{Status: &confirmed}, "",
	)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign doctor update: got %v, want ErrForbidden", err)
	}

	// The owning doctor can.
	got, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{Status: &confirmed}, "",
	)
	if err != nil {
		t.Fatalf("owning doctor update: %v", err)
	}
	if got.Status != appointment.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", got.Status)
	}
}

func TestUpdateAppointmentBadTransition(t *testing.T) {
	f := newBookingFixture(t)
	a := f.book(t, tod(10, 0), tod(10, 30))

	completed := appointment.StatusCompleted
	_, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{Status: &completed}, "",
	)
	if !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Fatalf("pending -> completed: got %v, want ErrInvalidStatusTransition", err)
	}

	stored, err := f.repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != appointment.StatusPending {
		t.Fatalf("rejected update changed stored status to %s", stored.Status)
	}
}

func TestRescheduleConflictLeavesOriginalUntouched(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, tod(9, 0), tod(9, 30))
	a := f.book(t, tod(10, 0), tod(10, 30))

	newStart, newEnd := tod(9, 15), tod(9, 45)
	_, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{StartTime: &newStart, EndTime: &newEnd}, "",
	)
	if !errors.Is(err, appointment.ErrSlotConflict) {
		t.Fatalf("reschedule into occupied slot: got %v, want ErrSlotConflict", err)
	}

	stored, err := f.repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.StartTime != tod(10, 0) || stored.EndTime != tod(10, 30) {
		t.Fatalf("rejected reschedule mutated the slot: %v-%v", stored.StartTime, stored.EndTime)
	}
}

func TestRescheduleSelfOverlapAllowed(t *testing.T) {
	f := newBookingFixture(t)
	a := f.book(t, tod(10, 0), tod(10, 30))

	// Shifting within the appointment's own window must not self-conflict.
	newStart, newEnd := tod(10, 15), tod(10, 45)
	got, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{StartTime: &newStart, EndTime: &newEnd}, "",
	)
	if err != nil {
		t.Fatalf("self-overlapping reschedule: %v", err)
	}
	if got.StartTime != newStart || got.EndTime != newEnd {
		t.Fatalf("slot = %v-%v, want %v-%v", got.StartTime, got.EndTime, newStart, newEnd)
	}
}

func TestRescheduleTerminalRejected(t *testing.T) {
	f := newBookingFixture(t)
	a := f.book(t, tod(10, 0), tod(10, 30))

	cancelled := appointment.StatusCancelled
	if _, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{Status: &cancelled}, "",
	); err != nil {
		t.Fatal(err)
	}

	newStart, newEnd := tod(11, 0), tod(11, 30)
	_, err := f.svc.UpdateAppointment(
		context.Background(), f.doctorAct, a.ID,
		&appointment.UpdateAppointmentCommand{StartTime: &newStart, EndTime: &newEnd}, "",
	)
	if !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Fatalf("reschedule of cancelled appointment: got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestListAppointmentsScoping(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, tod(10, 0), tod(10, 30))

	// A second patient's booking with the same doctor.
	if _, err := f.svc.CreateAppointment(
		context.Background(),
		domain.Actor{ID: f.patient2.ID, Role: domain.RolePatient},
		&appointment.CreateAppointmentCommand{
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			StartTime: tod(10, 0),
			EndTime:   tod(10, 30),
		},
		"",
	); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	own, err := f.svc.ListAppointments(ctx,
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		&appointment.ListAppointmentsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].PatientID != f.patient.ID {
		t.Fatalf("patient sees %d appointments, want only their own", len(own))
	}

	// A patient cannot widen their view by naming someone else.
	other := f.patient2.ID
	widened, err := f.svc.ListAppointments(ctx,
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient},
		&appointment.ListAppointmentsQuery{PatientID: &other})
	if err != nil {
		t.Fatal(err)
	}
	if len(widened) != 1 || widened[0].PatientID != f.patient.ID {
		t.Fatal("patient query filter was not overridden by actor scope")
	}

	calendar, err := f.svc.ListAppointments(ctx, f.doctorAct, &appointment.ListAppointmentsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(calendar) != 2 {
		t.Fatalf("doctor sees %d appointments, want 2", len(calendar))
	}

	all, err := f.svc.ListAppointments(ctx,
		domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin},
		&appointment.ListAppointmentsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d appointments, want 2", len(all))
	}
}

func TestAnalyticsSummaryAdminOnly(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, tod(10, 0), tod(10, 30))

	ctx := context.Background()

	if _, err := f.svc.AnalyticsSummary(ctx, f.doctorAct); !errors.Is(err, ErrForbidden) {
		t.Fatalf("doctor analytics: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.AnalyticsSummary(ctx,
		domain.Actor{ID: f.patient.ID, Role: domain.RolePatient}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient analytics: got %v, want ErrForbidden", err)
	}

	summary, err := f.svc.AnalyticsSummary(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0].Day != "2026-09-14" {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary[0].Statuses) != 1 || summary[0].Statuses[0].Status != appointment.StatusPending {
		t.Fatalf("summary statuses = %+v", summary[0].Statuses)
	}
}
