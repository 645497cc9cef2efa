package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/storage"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

// userService implements domain.UserService.
type userService struct {
	userRepo    domain.UserRepository
	vehicleRepo domain.VehicleRepository
	imageRepo   domain.ImageRepository
	store       storage.ImageStore
	log         *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo domain.UserRepository, vehicleRepo domain.VehicleRepository, imageRepo domain.ImageRepository, store storage.ImageStore, log *logger.Logger) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		imageRepo:   imageRepo,
		store:       store,
		log:         log,
	}
}

// UpdateProfile applies a partial profile update.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Usuário não encontrado")
		}
		return nil, apperror.NewDatabase("failed to get user", err)
	}

	if req.Phone != nil && (user.Phone == nil || *user.Phone != *req.Phone) {
		if other, err := s.userRepo.GetByPhone(ctx, *req.Phone); err == nil && other.ID != userID {
			return nil, apperror.NewConflict("Telefone já cadastrado")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewDatabase("failed to check phone", err)
		}
		user.Phone = req.Phone
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewDatabase("failed to update user", err)
	}
	return user, nil
}

// DeleteAccount removes the user and cascades: every owned vehicle, its image
// rows and (best-effort) its blobs.
func (s *userService) DeleteAccount(ctx context.Context, userID uint) error {
	ids, err := s.vehicleRepo.ListIDsByOwner(ctx, userID)
	if err != nil {
		return apperror.NewDatabase("failed to list vehicles", err)
	}
	for _, vehicleID := range ids {
		images, err := s.imageRepo.ListByVehicle(ctx, vehicleID)
		if err != nil {
			return apperror.NewDatabase("failed to list images", err)
		}
		for _, img := range images {
			if err := s.store.Delete(ctx, img.ObjectKey); err != nil {
				s.log.Warnf("failed to delete blob %s: %v", img.ObjectKey, err)
			}
		}
		if err := s.imageRepo.DeleteByVehicle(ctx, vehicleID); err != nil {
			return apperror.NewDatabase("failed to delete images", err)
		}
	}
	if err := s.vehicleRepo.DeleteByOwner(ctx, userID); err != nil {
		return apperror.NewDatabase("failed to delete vehicles", err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("Usuário não encontrado")
		}
		return apperror.NewDatabase("failed to delete user", err)
	}
	return nil
}

// Exists reports whether the user still exists; used by the auth middleware.
func (s *userService) Exists(ctx context.Context, userID uint) (bool, error) {
	return s.userRepo.Exists(ctx, userID)
}
