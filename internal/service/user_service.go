package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/user"
)

// UserService is the admin-facing user directory plus the authenticated
// doctor lookup used when booking.
type UserService struct {
	repo     user.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(repo user.Repository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, q *user.ListUsersQuery) ([]*user.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, q)
}

func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id uuid.UUID) (*user.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id uuid.UUID, cmd *user.UpdateUserCommand, ip string) (*user.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		return nil, &ValidationError{Fields: []string{"gender is invalid"}}
	}

	u, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "user",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, id uuid.UUID, ip string) error {
	if actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       domain.ActionDelete,
		ResourceType: "user",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}

// ListDoctors returns the bookable directory, visible to any authenticated
// user.
func (s *UserService) ListDoctors(ctx context.Context) ([]*user.User, error) {
	role := domain.RoleDoctor
	return s.repo.List(ctx, &user.ListUsersQuery{Role: &role})
}
