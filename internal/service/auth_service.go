package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/pkg/auth"
)

type AuthService struct {
	userRepo   user.Repository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(userRepo user.Repository, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, auditSvc: auditSvc, log: log}
}

type RegisterCommand struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	Phone          string
	Address        string
	Specialization string
	LicenseNumber  string
}

// Register creates a new account. Self-registration is limited to patient and
// doctor roles; only an authenticated admin may create accounts of any role.
func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand, createdBy *domain.Actor, ip string) (*user.User, *domain.TokenPair, error) {
	if err := validateRegisterCommand(cmd); err != nil {
		return nil, nil, err
	}

	isAdmin := createdBy != nil && createdBy.Role == domain.RoleAdmin
	if cmd.Role == domain.RoleAdmin && !isAdmin {
		return nil, nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		Role:           cmd.Role,
		Name:           strings.TrimSpace(cmd.Name),
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash:   string(hash),
		Phone:          strings.TrimSpace(cmd.Phone),
		Address:        cmd.Address,
		Specialization: cmd.Specialization,
		LicenseNumber:  cmd.LicenseNumber,
	}
	if createdBy != nil {
		id := createdBy.ID
		u.CreatedBy = &id
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, nil, err
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        domain.Actor{ID: u.ID, Role: u.Role},
		Action:       domain.ActionCreate,
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		IPAddress:    ip,
	})

	return u, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*user.User, *domain.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Burn a bcrypt comparison so response time does not reveal whether
		// the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        domain.Actor{ID: u.ID, Role: u.Role},
		Action:       domain.ActionLogin,
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		IPAddress:    ip,
	})

	return u, pair, nil
}

func (s *AuthService) GetProfile(ctx context.Context, actor domain.Actor) (*user.User, error) {
	return s.userRepo.GetByID(ctx, actor.ID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor domain.Actor, cmd *user.UpdateUserCommand) (*user.User, error) {
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		return nil, &ValidationError{Fields: []string{"gender is invalid"}}
	}
	return s.userRepo.Update(ctx, actor.ID, cmd)
}

func (s *AuthService) ResolveToken(token string) (*domain.Claims, error) {
	return s.jwtManager.ValidateAccessToken(token)
}

func validateRegisterCommand(cmd *RegisterCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !strings.Contains(cmd.Email, "@") {
		errs = append(errs, "valid email is required")
	}
	if len(cmd.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role must be patient, doctor or admin")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
