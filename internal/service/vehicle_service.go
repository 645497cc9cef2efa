package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/storage"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

// vehicleService implements domain.VehicleService.
type vehicleService struct {
	vehicleRepo domain.VehicleRepository
	imageRepo   domain.ImageRepository
	store       storage.ImageStore
	sanitizer   *bluemonday.Policy
	log         *logger.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo domain.VehicleRepository, imageRepo domain.ImageRepository, store storage.ImageStore, log *logger.Logger) domain.VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		imageRepo:   imageRepo,
		store:       store,
		sanitizer:   bluemonday.StrictPolicy(),
		log:         log,
	}
}

// normalizePage applies the pagination and sorting defaults: newest first for
// the creation-time sort, ascending for every other column.
func normalizePage(page domain.PageRequest) domain.PageRequest {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if _, ok := map[string]bool{"createdAt": true, "price": true, "year": true, "mileage": true}[page.SortBy]; !ok {
		page.SortBy = "createdAt"
	}
	if page.SortOrder != "asc" && page.SortOrder != "desc" {
		if page.SortBy == "createdAt" {
			page.SortOrder = "desc"
		} else {
			page.SortOrder = "asc"
		}
	}
	return page
}

// List returns a paginated, sorted page of all listings.
func (s *vehicleService) List(ctx context.Context, page domain.PageRequest) (*domain.VehicleList, error) {
	return s.Search(ctx, domain.VehicleFilter{}, page)
}

// Search returns a page of listings matching the filter, each annotated with
// its cover image.
func (s *vehicleService) Search(ctx context.Context, filter domain.VehicleFilter, page domain.PageRequest) (*domain.VehicleList, error) {
	page = normalizePage(page)

	vehicles, total, err := s.vehicleRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperror.NewDatabase("failed to list vehicles", err)
	}

	items := make([]domain.VehicleSummary, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, domain.VehicleSummary{
			ID:            v.ID,
			Title:         v.Title,
			Brand:         v.Brand,
			Model:         v.Model,
			Year:          v.Year,
			Price:         v.Price,
			Mileage:       v.Mileage,
			State:         v.State,
			City:          v.City,
			Fuel:          v.Fuel,
			Transmission:  v.Transmission,
			BodyType:      v.BodyType,
			Color:         v.Color,
			AnnouncerName: v.AnnouncerName,
			CoverImage:    s.coverURL(ctx, v.ID),
			CreatedAt:     v.CreatedAt,
		})
	}

	return &domain.VehicleList{
		Items:      items,
		Page:       page.Page,
		TotalPages: int(math.Ceil(float64(total) / float64(page.Limit))),
		TotalCount: total,
	}, nil
}

// coverURL resolves the first image of a vehicle; empty when it has none.
func (s *vehicleService) coverURL(ctx context.Context, vehicleID uint) string {
	img, err := s.imageRepo.FirstByVehicle(ctx, vehicleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnf("failed to resolve cover image for vehicle %d: %v", vehicleID, err)
		}
		return ""
	}
	return s.store.URL(img.ObjectKey)
}

// GetByCityState filters by exact city and state.
func (s *vehicleService) GetByCityState(ctx context.Context, city, state string, page domain.PageRequest) (*domain.VehicleList, error) {
	if strings.TrimSpace(city) == "" || strings.TrimSpace(state) == "" {
		return nil, apperror.NewBadRequest("Cidade e estado são obrigatórios")
	}
	filter := domain.VehicleFilter{City: city, State: state, ExactCityState: true}
	return s.Search(ctx, filter, page)
}

// Get returns the full listing with resolved image URLs.
func (s *vehicleService) Get(ctx context.Context, id uint) (*domain.VehicleDetail, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Veículo não encontrado")
		}
		return nil, apperror.NewDatabase("failed to get vehicle", err)
	}

	images, err := s.imageRepo.ListByVehicle(ctx, id)
	if err != nil {
		return nil, apperror.NewDatabase("failed to list images", err)
	}
	resp := &domain.VehicleDetail{Vehicle: *v, Images: make([]domain.ImageResponse, 0, len(images))}
	for _, img := range images {
		resp.Images = append(resp.Images, domain.ImageResponse{
			ID:        img.ID,
			VehicleID: img.VehicleID,
			URL:       s.store.URL(img.ObjectKey),
			CreatedAt: img.CreatedAt,
		})
	}
	return resp, nil
}

// maxVehicleYear allows next-year models.
func maxVehicleYear() int {
	return time.Now().Year() + 1
}

// Create persists a listing for the authenticated owner.
func (s *vehicleService) Create(ctx context.Context, ownerID uint, req domain.CreateVehicleRequest) (*domain.Vehicle, error) {
	if req.Year > maxVehicleYear() {
		return nil, apperror.NewValidation("Dados inválidos", []apperror.FieldError{
			{Field: "year", Message: fmt.Sprintf("Ano deve estar entre %d e %d", domain.MinVehicleYear, maxVehicleYear())},
		})
	}

	v := &domain.Vehicle{
		OwnerID:        ownerID,
		Title:          req.Title,
		Brand:          req.Brand,
		Model:          req.Model,
		Engine:         req.Engine,
		Year:           req.Year,
		Price:          req.Price,
		Mileage:        req.Mileage,
		State:          req.State,
		City:           req.City,
		Fuel:           req.Fuel,
		Transmission:   req.Transmission,
		BodyType:       req.BodyType,
		Color:          req.Color,
		Description:    s.sanitizer.Sanitize(req.Description),
		Features:       req.Features,
		AnnouncerName:  req.AnnouncerName,
		AnnouncerEmail: req.AnnouncerEmail,
		AnnouncerPhone: req.AnnouncerPhone,
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, apperror.NewDatabase("failed to create vehicle", err)
	}
	return v, nil
}

// findOwned is the single ownership gate for mutations: absent and not-owned
// both yield the same 404.
func (s *vehicleService) findOwned(ctx context.Context, id, ownerID uint) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Veículo não encontrado")
		}
		return nil, apperror.NewDatabase("failed to get vehicle", err)
	}
	return v, nil
}

// Update applies a partial merge to an owned listing.
func (s *vehicleService) Update(ctx context.Context, id, ownerID uint, req domain.UpdateVehicleRequest) (*domain.Vehicle, error) {
	v, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Year != nil && *req.Year > maxVehicleYear() {
		return nil, apperror.NewValidation("Dados inválidos", []apperror.FieldError{
			{Field: "year", Message: fmt.Sprintf("Ano deve estar entre %d e %d", domain.MinVehicleYear, maxVehicleYear())},
		})
	}

	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Brand != nil {
		v.Brand = *req.Brand
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.Engine != nil {
		v.Engine = *req.Engine
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.Price != nil {
		v.Price = *req.Price
	}
	if req.Mileage != nil {
		v.Mileage = *req.Mileage
	}
	if req.State != nil {
		v.State = *req.State
	}
	if req.City != nil {
		v.City = *req.City
	}
	if req.Fuel != nil {
		v.Fuel = *req.Fuel
	}
	if req.Transmission != nil {
		v.Transmission = *req.Transmission
	}
	if req.BodyType != nil {
		v.BodyType = *req.BodyType
	}
	if req.Color != nil {
		v.Color = *req.Color
	}
	if req.Description != nil {
		v.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Features != nil {
		v.Features = *req.Features
	}
	if req.AnnouncerName != nil {
		v.AnnouncerName = *req.AnnouncerName
	}
	if req.AnnouncerEmail != nil {
		v.AnnouncerEmail = *req.AnnouncerEmail
	}
	if req.AnnouncerPhone != nil {
		v.AnnouncerPhone = *req.AnnouncerPhone
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, apperror.NewDatabase("failed to update vehicle", err)
	}
	return v, nil
}

// Delete removes an owned listing, its image rows and, best-effort, the blobs.
// Remote cleanup failures are logged and swallowed so the local cascade always
// completes.
func (s *vehicleService) Delete(ctx context.Context, id, ownerID uint) error {
	if _, err := s.findOwned(ctx, id, ownerID); err != nil {
		return err
	}

	images, err := s.imageRepo.ListByVehicle(ctx, id)
	if err != nil {
		return apperror.NewDatabase("failed to list images", err)
	}
	for _, img := range images {
		if err := s.store.Delete(ctx, img.ObjectKey); err != nil {
			s.log.Warnf("failed to delete blob %s: %v", img.ObjectKey, err)
		}
	}
	if err := s.imageRepo.DeleteByVehicle(ctx, id); err != nil {
		return apperror.NewDatabase("failed to delete images", err)
	}
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return apperror.NewDatabase("failed to delete vehicle", err)
	}
	return nil
}
