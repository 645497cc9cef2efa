package domain

import (
	"context"
	"mime/multipart"
	"time"
)

// Image is the metadata row for a blob stored under the vehicle's namespace.
// The raw object key never leaves the API; responses expose a resolved URL.
type Image struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	VehicleID uint      `json:"vehicle_id" gorm:"index;not null"`
	ObjectKey string    `json:"-" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxImageFileSize is the per-file upload limit in bytes.
const MaxImageFileSize = 10 << 20 // 10MB

// ImageResponse is the public image shape.
type ImageResponse struct {
	ID        uint      `json:"id"`
	VehicleID uint      `json:"vehicle_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageRepository is the persistence boundary for image metadata.
type ImageRepository interface {
	Create(ctx context.Context, img *Image) error
	GetByIDAndVehicle(ctx context.Context, id, vehicleID uint) (*Image, error)
	ListByVehicle(ctx context.Context, vehicleID uint) ([]Image, error)
	// FirstByVehicle returns the oldest image of the vehicle (the cover image).
	FirstByVehicle(ctx context.Context, vehicleID uint) (*Image, error)
	CountByVehicle(ctx context.Context, vehicleID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByVehicle(ctx context.Context, vehicleID uint) error
}

// ImageService implements the per-listing image operations.
type ImageService interface {
	Upload(ctx context.Context, vehicleID, ownerID uint, files []*multipart.FileHeader) ([]ImageResponse, error)
	ListByVehicle(ctx context.Context, vehicleID uint) ([]ImageResponse, error)
	Get(ctx context.Context, vehicleID, imageID uint) (*ImageResponse, error)
	Cover(ctx context.Context, vehicleID uint) (*ImageResponse, error)
	Delete(ctx context.Context, vehicleID, imageID, ownerID uint) error
}
