package domain

import (
	"context"
	"time"
)

// Vehicle is a marketplace listing. Announcer contact fields are independent
// from the owning account's contact info: a listing may advertise different
// details than the account holder.
type Vehicle struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OwnerID        uint      `json:"owner_id" gorm:"index;not null"`
	Title          string    `json:"title" gorm:"size:150;not null"`
	Brand          string    `json:"brand" gorm:"size:80;not null"`
	Model          string    `json:"model" gorm:"size:80;not null"`
	Engine         string    `json:"engine" gorm:"size:50"`
	Year           int       `json:"year" gorm:"not null"`
	Price          float64   `json:"price" gorm:"not null"`
	Mileage        int       `json:"mileage"`
	State          string    `json:"state" gorm:"size:50"`
	City           string    `json:"city" gorm:"size:100"`
	Fuel           string    `json:"fuel" gorm:"size:30"`
	Transmission   string    `json:"transmission" gorm:"size:30"`
	BodyType       string    `json:"bodyType" gorm:"size:30"`
	Color          string    `json:"color" gorm:"size:30"`
	Description    string    `json:"description"`
	Features       []string  `json:"features" gorm:"serializer:json"`
	AnnouncerName  string    `json:"announcerName" gorm:"size:100"`
	AnnouncerEmail string    `json:"announcerEmail" gorm:"size:254"`
	AnnouncerPhone string    `json:"announcerPhone" gorm:"size:11"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MaxImagesPerVehicle caps the number of images a listing may carry.
const MaxImagesPerVehicle = 10

// MinVehicleYear is the oldest accepted model year.
const MinVehicleYear = 1900

// CreateVehicleRequest is the listing creation payload. The owner is always
// taken from the authenticated identity, never from the body.
type CreateVehicleRequest struct {
	Title          string   `json:"title" binding:"required,max=150"`
	Brand          string   `json:"brand" binding:"required,max=80"`
	Model          string   `json:"model" binding:"required,max=80"`
	Engine         string   `json:"engine" binding:"omitempty,max=50"`
	Year           int      `json:"year" binding:"required,min=1900"`
	Price          float64  `json:"price" binding:"min=0"`
	Mileage        int      `json:"mileage" binding:"min=0"`
	State          string   `json:"state" binding:"omitempty,max=50"`
	City           string   `json:"city" binding:"omitempty,max=100"`
	Fuel           string   `json:"fuel" binding:"omitempty,max=30"`
	Transmission   string   `json:"transmission" binding:"omitempty,max=30"`
	BodyType       string   `json:"bodyType" binding:"omitempty,max=30"`
	Color          string   `json:"color" binding:"omitempty,max=30"`
	Description    string   `json:"description" binding:"omitempty,max=5000"`
	Features       []string `json:"features" binding:"omitempty,dive,max=100"`
	AnnouncerName  string   `json:"announcerName" binding:"required,max=100"`
	AnnouncerEmail string   `json:"announcerEmail" binding:"required,email,max=254"`
	AnnouncerPhone string   `json:"announcerPhone" binding:"required,phonebr"`
}

// UpdateVehicleRequest is a partial listing update with the same per-field
// rules as creation. Nil fields are untouched.
type UpdateVehicleRequest struct {
	Title          *string   `json:"title" binding:"omitempty,max=150"`
	Brand          *string   `json:"brand" binding:"omitempty,max=80"`
	Model          *string   `json:"model" binding:"omitempty,max=80"`
	Engine         *string   `json:"engine" binding:"omitempty,max=50"`
	Year           *int      `json:"year" binding:"omitempty,min=1900"`
	Price          *float64  `json:"price" binding:"omitempty,min=0"`
	Mileage        *int      `json:"mileage" binding:"omitempty,min=0"`
	State          *string   `json:"state" binding:"omitempty,max=50"`
	City           *string   `json:"city" binding:"omitempty,max=100"`
	Fuel           *string   `json:"fuel" binding:"omitempty,max=30"`
	Transmission   *string   `json:"transmission" binding:"omitempty,max=30"`
	BodyType       *string   `json:"bodyType" binding:"omitempty,max=30"`
	Color          *string   `json:"color" binding:"omitempty,max=30"`
	Description    *string   `json:"description" binding:"omitempty,max=5000"`
	Features       *[]string `json:"features" binding:"omitempty,dive,max=100"`
	AnnouncerName  *string   `json:"announcerName" binding:"omitempty,max=100"`
	AnnouncerEmail *string   `json:"announcerEmail" binding:"omitempty,email,max=254"`
	AnnouncerPhone *string   `json:"announcerPhone" binding:"omitempty,phonebr"`
}

// VehicleFilter is built from optional query parameters. Zero values mean
// "no constraint"; malformed numeric parameters are dropped during parsing.
type VehicleFilter struct {
	Name         string
	Brand        string
	Model        string
	Engine       string
	Fuel         string
	Transmission string
	BodyType     string
	Color        string
	State        string
	City         string
	// ExactCity/ExactState switch city/state to anchored matching
	// (the /vehicles/city-state convenience filter).
	ExactCityState bool
	Year           *int
	MinYear        *int
	MaxYear        *int
	MinPrice       *float64
	MaxPrice       *float64
	MinMileage     *int
	MaxMileage     *int
}

// PageRequest carries pagination and sorting for listing queries.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string // createdAt, price, year, mileage
	SortOrder string // asc, desc
}

// VehicleSummary is the stripped list-view shape: no description, features or
// raw image list, plus a resolved cover image URL.
type VehicleSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Price         float64   `json:"price"`
	Mileage       int       `json:"mileage"`
	State         string    `json:"state"`
	City          string    `json:"city"`
	Fuel          string    `json:"fuel"`
	Transmission  string    `json:"transmission"`
	BodyType      string    `json:"bodyType"`
	Color         string    `json:"color"`
	AnnouncerName string    `json:"announcerName"`
	CoverImage    string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// VehicleList is a page of summaries plus page metadata.
type VehicleList struct {
	Items      []VehicleSummary `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	TotalCount int64            `json:"totalCount"`
}

// VehicleDetail is the single-vehicle shape with image URLs resolved.
type VehicleDetail struct {
	Vehicle
	Images []ImageResponse `json:"images"`
}

// VehicleRepository is the persistence boundary for listings.
type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id uint) (*Vehicle, error)
	// GetByIDAndOwner is the ownership gate: it fails with the same not-found
	// error whether the vehicle is absent or owned by someone else.
	GetByIDAndOwner(ctx context.Context, id, ownerID uint) (*Vehicle, error)
	List(ctx context.Context, filter VehicleFilter, page PageRequest) ([]Vehicle, int64, error)
	ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id uint) error
	DeleteByOwner(ctx context.Context, ownerID uint) error
}

// VehicleService implements the listing operations.
type VehicleService interface {
	List(ctx context.Context, page PageRequest) (*VehicleList, error)
	Search(ctx context.Context, filter VehicleFilter, page PageRequest) (*VehicleList, error)
	GetByCityState(ctx context.Context, city, state string, page PageRequest) (*VehicleList, error)
	Get(ctx context.Context, id uint) (*VehicleDetail, error)
	Create(ctx context.Context, ownerID uint, req CreateVehicleRequest) (*Vehicle, error)
	Update(ctx context.Context, id, ownerID uint, req UpdateVehicleRequest) (*Vehicle, error)
	Delete(ctx context.Context, id, ownerID uint) error
}
