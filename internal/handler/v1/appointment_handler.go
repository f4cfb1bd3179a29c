package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/service"
)

type AppointmentHandler struct {
	bookings *service.BookingService
}

func NewAppointmentHandler(bookings *service.BookingService) *AppointmentHandler {
	return &AppointmentHandler{bookings: bookings}
}

type createAppointmentRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id" binding:"required"`
	PatientID *uuid.UUID `json:"patient_id"`
	Date      string     `json:"date" binding:"required"` // "YYYY-MM-DD"
	StartTime string     `json:"start_time" binding:"required"`
	EndTime   string     `json:"end_time" binding:"required"`
	Reason    string     `json:"reason"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return
	}
	start, err := appointment.ParseTimeOfDay(req.StartTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	end, err := appointment.ParseTimeOfDay(req.EndTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	appt, err := h.bookings.CreateAppointment(c.Request.Context(), actor, &appointment.CreateAppointmentCommand{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    req.Reason,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	q := &appointment.ListAppointmentsQuery{}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			respondServiceError(c, appointment.ErrInvalidStatus)
			return
		}
		q.Status = &status
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctor_id")
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id")
			return
		}
		q.PatientID = &id
	}

	appts, err := h.bookings.ListAppointments(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appts)
}

type updateAppointmentRequest struct {
	Status       *string `json:"status"`
	NewDate      *string `json:"new_date"`
	NewStartTime *string `json:"new_start_time"`
	NewEndTime   *string `json:"new_end_time"`
	Notes        *string `json:"notes"`
}

// UpdateStatus handles both status transitions and reschedules, in one
// atomic update.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.UpdateAppointmentCommand{Notes: req.Notes}

	if req.Status != nil {
		status := appointment.Status(*req.Status)
		if !status.IsValid() {
			respondServiceError(c, appointment.ErrInvalidStatus)
			return
		}
		cmd.Status = &status
	}
	if req.NewDate != nil {
		date, err := time.Parse("2006-01-02", *req.NewDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid new_date: expected YYYY-MM-DD")
			return
		}
		cmd.Date = &date
	}
	if req.NewStartTime != nil {
		start, err := appointment.ParseTimeOfDay(*req.NewStartTime)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		cmd.StartTime = &start
	}
	if req.NewEndTime != nil {
		end, err := appointment.ParseTimeOfDay(*req.NewEndTime)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		cmd.EndTime = &end
	}

	appt, err := h.bookings.UpdateAppointment(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appt)
}

func (h *AppointmentHandler) AnalyticsSummary(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	summary, err := h.bookings.AnalyticsSummary(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, summary)
}
