package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailTaken
		}
		return storageErr("creating user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, storageErr("loading user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, storageErr("loading user by email", err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, cmd *user.UpdateUserCommand) (*user.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		u.Name = *cmd.Name
	}
	if cmd.Phone != nil {
		u.Phone = *cmd.Phone
	}
	if cmd.DateOfBirth != nil {
		u.DateOfBirth = cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		u.Gender = *cmd.Gender
	}
	if cmd.Address != nil {
		u.Address = *cmd.Address
	}
	if cmd.MedicalHistory != nil {
		u.MedicalHistory = *cmd.MedicalHistory
	}
	if cmd.Specialization != nil {
		u.Specialization = *cmd.Specialization
	}
	if cmd.LicenseNumber != nil {
		u.LicenseNumber = *cmd.LicenseNumber
	}
	if cmd.AvailabilitySlots != nil {
		u.AvailabilitySlots = cmd.AvailabilitySlots
	}

	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, storageErr("updating user", err)
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", &now)
	if res.Error != nil {
		return storageErr("deleting user", res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, q *user.ListUsersQuery) ([]*user.User, error) {
	tx := r.db.WithContext(ctx).Where("deleted_at IS NULL")
	if q.Role != nil {
		tx = tx.Where("role = ?", *q.Role)
	}

	var users []*user.User
	if err := tx.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, storageErr("listing users", err)
	}
	return users, nil
}
