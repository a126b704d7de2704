package repository

import (
	"context"
	"errors"
	"time"

	"github.com/placementai/placement-predictor/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

// EnsureUser creates the user document if it does not exist yet. An existing
// user is left untouched: role and created_at are set exactly once, at
// creation, and later calls with different profile fields are no-ops.
func (r *UserRepository) EnsureUser(ctx context.Context, id string, profile model.UserProfile) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapStoreErr("ensure user", err)
	}

	role := profile.Role
	if role == "" {
		role = model.RoleStudent
	}
	user = model.User{
		ID:          id,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        role,
		Source:      profile.Source,
		CreatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost a create race with a concurrent request for the same id;
		// the winner's document stands.
		var existing model.User
		if ferr := r.db.WithContext(ctx).First(&existing, "id = ?", id).Error; ferr == nil {
			return &existing, nil
		}
		return nil, mapStoreErr("create user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, mapStoreErr("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) ListStudents(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleStudent).
		Order("created_at asc").
		Find(&users).Error
	return users, mapStoreErr("list students", err)
}
