package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/prescription"
	"github.com/clinicdesk/clinicdesk/internal/service"
)

type PrescriptionHandler struct {
	prescriptions *service.PrescriptionService
}

func NewPrescriptionHandler(prescriptions *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions}
}

type createPrescriptionRequest struct {
	AppointmentID uuid.UUID                 `json:"appointment_id" binding:"required"`
	Medications   []prescription.Medication `json:"medications" binding:"required"`
	Notes         string                    `json:"notes"`
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.prescriptions.CreatePrescription(c.Request.Context(), actor, &prescription.CreatePrescriptionCommand{
		AppointmentID: req.AppointmentID,
		Medications:   req.Medications,
		Notes:         req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	prescriptions, err := h.prescriptions.ListPrescriptions(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, prescriptions)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptions.GetPrescription(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}
