package service

import (
	"context"
	"strings"

	"github.com/malcolmm20/farmlink/internal/cache"
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts and farm profiles.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates the user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput is the admin user-creation payload.
type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=customer farmer admin"`
	Location string `json:"location"`
}

// UpdateUserInput is a partial patch. Nil fields are left untouched.
type UpdateUserInput struct {
	Name        *string          `json:"name"`
	Password    *string          `json:"password"`
	Location    *string          `json:"location"`
	Description *string          `json:"description"`
	Role        *string          `json:"role"`
	FarmInfo    *models.FarmInfo `json:"farmInfo"`
}

// List returns users matching the filter.
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Get fetches one user.
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create inserts a user with a hashed password.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	taken, err := s.userRepo.UsernameTaken(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Username:     username,
		PasswordHash: string(hash),
		Role:         input.Role,
		Location:     strings.TrimSpace(input.Location),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial patch. Farm info may only be set on farmer
// accounts.
func (s *UserService) Update(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrValidation
		}
		user.Name = name
	}
	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, ErrValidation
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.Location != nil {
		user.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		user.Description = strings.TrimSpace(*input.Description)
	}
	if input.Role != nil {
		switch *input.Role {
		case constants.RoleCustomer, constants.RoleFarmer, constants.RoleAdmin:
			user.Role = *input.Role
		default:
			return nil, ErrValidation
		}
	}
	if input.FarmInfo != nil {
		if !user.IsFarmer() {
			return nil, ErrNotFarmer
		}
		user.FarmInfo = *input.FarmInfo
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// Delete removes a user. A second delete of the same id reports not found.
// Owned products, orders and reviews are left in place.
func (s *UserService) Delete(id uint) error {
	affected, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	_ = cache.DelUserAuthState(context.Background(), id)
	logger.Infow("user_deleted", "user_id", id)
	return nil
}

// ListFarms returns every farmer account.
func (s *UserService) ListFarms() ([]models.User, error) {
	return s.userRepo.ListFarms()
}

// GetFarm fetches one farmer account.
func (s *UserService) GetFarm(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsFarmer() {
		return nil, ErrFarmNotFound
	}
	return user, nil
}
