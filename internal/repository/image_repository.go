package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/domain"
)

// imageRepository implements domain.ImageRepository using GORM.
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository with the given GORM DB instance.
func NewImageRepository(db *gorm.DB) domain.ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts a new image row.
func (r *imageRepository) Create(ctx context.Context, img *domain.Image) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByIDAndVehicle retrieves an image only when it belongs to the vehicle.
func (r *imageRepository) GetByIDAndVehicle(ctx context.Context, id, vehicleID uint) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).Where("id = ? AND vehicle_id = ?", id, vehicleID).First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ListByVehicle returns the vehicle's images in creation order.
func (r *imageRepository) ListByVehicle(ctx context.Context, vehicleID uint) ([]domain.Image, error) {
	var images []domain.Image
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at asc").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// FirstByVehicle returns the oldest image of the vehicle (the cover image).
func (r *imageRepository) FirstByVehicle(ctx context.Context, vehicleID uint) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at asc").
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// CountByVehicle returns how many images the vehicle currently has.
func (r *imageRepository) CountByVehicle(ctx context.Context, vehicleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Image{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes an image row by its ID.
func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Image{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByVehicle removes every image row of the vehicle.
func (r *imageRepository) DeleteByVehicle(ctx context.Context, vehicleID uint) error {
	return r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Delete(&domain.Image{}).Error
}
