package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByReference resolves a loyalty member reference, which callers may
	// supply as either an account ID or an email address.
	FindByReference(ctx context.Context, ref string) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByReference(ctx context.Context, ref string) (*User, error) {
	var user User

	// Try account ID first, then email.
	if id, err := uuid.Parse(ref); err == nil {
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err == nil {
			return &user, nil
		}
	}

	err := r.db.WithContext(ctx).Where("email = ? OR member_number = ?", ref, ref).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
