package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/storage"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

// imageService implements domain.ImageService.
type imageService struct {
	imageRepo   domain.ImageRepository
	vehicleRepo domain.VehicleRepository
	store       storage.ImageStore
	log         *logger.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(imageRepo domain.ImageRepository, vehicleRepo domain.VehicleRepository, store storage.ImageStore, log *logger.Logger) domain.ImageService {
	return &imageService{imageRepo: imageRepo, vehicleRepo: vehicleRepo, store: store, log: log}
}

// requireOwned gates image mutations on ownership of the parent vehicle.
func (s *imageService) requireOwned(ctx context.Context, vehicleID, ownerID uint) error {
	_, err := s.vehicleRepo.GetByIDAndOwner(ctx, vehicleID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("Veículo não encontrado")
		}
		return apperror.NewDatabase("failed to get vehicle", err)
	}
	return nil
}

// Upload stores each file under the vehicle's namespace and persists a row per
// image, enforcing the per-vehicle limit.
func (s *imageService) Upload(ctx context.Context, vehicleID, ownerID uint, files []*multipart.FileHeader) ([]domain.ImageResponse, error) {
	if err := s.requireOwned(ctx, vehicleID, ownerID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperror.NewBadRequest("Nenhum arquivo enviado")
	}

	count, err := s.imageRepo.CountByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, apperror.NewDatabase("failed to count images", err)
	}
	if count+int64(len(files)) > domain.MaxImagesPerVehicle {
		return nil, apperror.NewConflict(fmt.Sprintf(
			"Limite de %d imagens por veículo excedido. O veículo já possui %d imagens",
			domain.MaxImagesPerVehicle, count))
	}

	responses := make([]domain.ImageResponse, 0, len(files))
	for _, file := range files {
		if file.Size > domain.MaxImageFileSize {
			return nil, apperror.NewBadRequest(fmt.Sprintf(
				"O arquivo %s excede o tamanho máximo de 10MB", file.Filename))
		}
		data, err := readFile(file)
		if err != nil {
			return nil, apperror.NewBadRequest(fmt.Sprintf("Falha ao ler o arquivo %s", file.Filename))
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		key := fmt.Sprintf("vehicles/%d/%s%s", vehicleID, uuid.New().String(), ext)
		if err := s.store.Upload(ctx, key, contentTypeFor(ext), data); err != nil {
			return nil, apperror.NewExternal("Falha ao enviar imagem", err)
		}

		img := &domain.Image{VehicleID: vehicleID, ObjectKey: key}
		if err := s.imageRepo.Create(ctx, img); err != nil {
			// Orphaned blob: remove it so the store does not leak objects.
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.log.Warnf("failed to clean up blob %s: %v", key, delErr)
			}
			return nil, apperror.NewDatabase("failed to persist image", err)
		}
		responses = append(responses, domain.ImageResponse{
			ID:        img.ID,
			VehicleID: img.VehicleID,
			URL:       s.store.URL(key),
			CreatedAt: img.CreatedAt,
		})
	}
	return responses, nil
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// contentTypeFor maps the file extension to a MIME type, defaulting to PNG.
func contentTypeFor(ext string) string {
	switch ext {
	case ".jpeg", ".jpg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// ListByVehicle returns every image of the vehicle.
func (s *imageService) ListByVehicle(ctx context.Context, vehicleID uint) ([]domain.ImageResponse, error) {
	images, err := s.imageRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, apperror.NewDatabase("failed to list images", err)
	}
	if len(images) == 0 {
		return nil, apperror.NewNotFound("Nenhuma imagem encontrada")
	}
	responses := make([]domain.ImageResponse, 0, len(images))
	for _, img := range images {
		responses = append(responses, domain.ImageResponse{
			ID:        img.ID,
			VehicleID: img.VehicleID,
			URL:       s.store.URL(img.ObjectKey),
			CreatedAt: img.CreatedAt,
		})
	}
	return responses, nil
}

// Get returns a single image of the vehicle. An id belonging to another
// vehicle answers the same 404 as a missing one.
func (s *imageService) Get(ctx context.Context, vehicleID, imageID uint) (*domain.ImageResponse, error) {
	img, err := s.imageRepo.GetByIDAndVehicle(ctx, imageID, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Imagem não encontrada")
		}
		return nil, apperror.NewDatabase("failed to get image", err)
	}
	return &domain.ImageResponse{
		ID:        img.ID,
		VehicleID: img.VehicleID,
		URL:       s.store.URL(img.ObjectKey),
		CreatedAt: img.CreatedAt,
	}, nil
}

// Cover returns the first image of the vehicle.
func (s *imageService) Cover(ctx context.Context, vehicleID uint) (*domain.ImageResponse, error) {
	img, err := s.imageRepo.FirstByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Nenhuma imagem encontrada")
		}
		return nil, apperror.NewDatabase("failed to get cover image", err)
	}
	return &domain.ImageResponse{
		ID:        img.ID,
		VehicleID: img.VehicleID,
		URL:       s.store.URL(img.ObjectKey),
		CreatedAt: img.CreatedAt,
	}, nil
}

// Delete removes the blob (best-effort) and the image row, gated on ownership
// of the parent vehicle.
func (s *imageService) Delete(ctx context.Context, vehicleID, imageID, ownerID uint) error {
	if err := s.requireOwned(ctx, vehicleID, ownerID); err != nil {
		return err
	}
	img, err := s.imageRepo.GetByIDAndVehicle(ctx, imageID, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("Imagem não encontrada")
		}
		return apperror.NewDatabase("failed to get image", err)
	}

	if err := s.store.Delete(ctx, img.ObjectKey); err != nil {
		s.log.Warnf("failed to delete blob %s: %v", img.ObjectKey, err)
	}
	if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
		return apperror.NewDatabase("failed to delete image", err)
	}
	return nil
}
