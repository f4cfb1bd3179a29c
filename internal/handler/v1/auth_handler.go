package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Role           string `json:"role" binding:"required"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

type authResponse struct {
	User   *user.User        `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	// Self-registration carries no actor; admin-created accounts do.
	var createdBy *domain.Actor
	if actor, ok := actorFrom(c); ok {
		createdBy = &actor
	}

	u, tokens, err := h.auth.Register(c.Request.Context(), &service.RegisterCommand{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		Phone:          req.Phone,
		Address:        req.Address,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}, createdBy, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, authResponse{User: u, Tokens: tokens})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	u, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, authResponse{User: u, Tokens: tokens})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	u, err := h.auth.GetProfile(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}

type updateProfileRequest struct {
	Name              *string                 `json:"name"`
	Phone             *string                 `json:"phone"`
	DateOfBirth       *string                 `json:"date_of_birth"` // "YYYY-MM-DD"
	Gender            *string                 `json:"gender"`
	Address           *string                 `json:"address"`
	MedicalHistory    *string                 `json:"medical_history"`
	Specialization    *string                 `json:"specialization"`
	LicenseNumber     *string                 `json:"license_number"`
	AvailabilitySlots []user.AvailabilitySlot `json:"availability_slots"`
}

// toUpdateCommand translates the request body, parsing the date of birth.
func (req *updateProfileRequest) toUpdateCommand(c *gin.Context) (*user.UpdateUserCommand, bool) {
	cmd := &user.UpdateUserCommand{
		Name:              req.Name,
		Phone:             req.Phone,
		Address:           req.Address,
		MedicalHistory:    req.MedicalHistory,
		Specialization:    req.Specialization,
		LicenseNumber:     req.LicenseNumber,
		AvailabilitySlots: req.AvailabilitySlots,
	}
	if req.Gender != nil {
		g := user.Gender(*req.Gender)
		cmd.Gender = &g
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date_of_birth: must be YYYY-MM-DD")
			return nil, false
		}
		cmd.DateOfBirth = &dob
	}
	return cmd, true
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd, ok := req.toUpdateCommand(c)
	if !ok {
		return
	}

	u, err := h.auth.UpdateProfile(c.Request.Context(), actor, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}
