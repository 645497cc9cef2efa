package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/util"
)

// vehicleRepository implements domain.VehicleRepository using GORM.
type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new VehicleRepository with the given GORM DB instance.
func NewVehicleRepository(db *gorm.DB) domain.VehicleRepository {
	return &vehicleRepository{db: db}
}

// Create inserts a new vehicle into the database.
func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByID retrieves a vehicle by its ID.
func (r *vehicleRepository) GetByID(ctx context.Context, id uint) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByIDAndOwner retrieves a vehicle only when it belongs to the given owner.
// Absent and not-owned both surface as gorm.ErrRecordNotFound so callers
// cannot leak existence to non-owners.
func (r *vehicleRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uint) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// sortColumns whitelists the sortable fields.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"year":      "year",
	"mileage":   "mileage",
}

// List returns a page of vehicles matching the filter plus the total count.
func (r *vehicleRepository) List(ctx context.Context, filter domain.VehicleFilter, page domain.PageRequest) ([]domain.Vehicle, int64, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&domain.Vehicle{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	column, ok := sortColumns[page.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "asc"
	if strings.EqualFold(page.SortOrder, "desc") {
		order = "desc"
	}

	var vehicles []domain.Vehicle
	err := query.
		Order(column + " " + order).
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, total, nil
}

// ListIDsByOwner returns the ids of every vehicle owned by the user.
func (r *vehicleRepository) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Vehicle{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update saves the full vehicle row.
func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	if err := r.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

// Delete removes a vehicle by its ID.
func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Vehicle{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByOwner removes every vehicle owned by the user.
func (r *vehicleRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Vehicle{}).Error
}

// predicate inspects the filter and, when its parameter is present, yields a
// SQL fragment plus arguments.
type predicate func(f domain.VehicleFilter) (cond string, args []any, ok bool)

// filterPredicates is the ordered list folded over the base query. Each entry
// is independent; all produced fragments are ANDed.
var filterPredicates = []predicate{
	namePredicate,
	containsPredicate("brand", func(f domain.VehicleFilter) string { return f.Brand }),
	containsPredicate("model", func(f domain.VehicleFilter) string { return f.Model }),
	containsPredicate("engine", func(f domain.VehicleFilter) string { return f.Engine }),
	containsPredicate("fuel", func(f domain.VehicleFilter) string { return f.Fuel }),
	containsPredicate("transmission", func(f domain.VehicleFilter) string { return f.Transmission }),
	containsPredicate("body_type", func(f domain.VehicleFilter) string { return f.BodyType }),
	containsPredicate("color", func(f domain.VehicleFilter) string { return f.Color }),
	locationPredicate("state", func(f domain.VehicleFilter) string { return f.State }),
	locationPredicate("city", func(f domain.VehicleFilter) string { return f.City }),
	intPredicate("year = ?", func(f domain.VehicleFilter) *int { return f.Year }),
	intPredicate("year >= ?", func(f domain.VehicleFilter) *int { return f.MinYear }),
	intPredicate("year <= ?", func(f domain.VehicleFilter) *int { return f.MaxYear }),
	floatPredicate("price >= ?", func(f domain.VehicleFilter) *float64 { return f.MinPrice }),
	floatPredicate("price <= ?", func(f domain.VehicleFilter) *float64 { return f.MaxPrice }),
	intPredicate("mileage >= ?", func(f domain.VehicleFilter) *int { return f.MinMileage }),
	intPredicate("mileage <= ?", func(f domain.VehicleFilter) *int { return f.MaxMileage }),
}

func applyFilter(query *gorm.DB, f domain.VehicleFilter) *gorm.DB {
	for _, build := range filterPredicates {
		if cond, args, ok := build(f); ok {
			query = query.Where(cond, args...)
		}
	}
	return query
}

// nameSearchColumns are the text fields a free-text token is matched against.
var nameSearchColumns = []string{"title", "brand", "model", "color", "state", "city"}

// namePredicate tokenizes the free-text term on whitespace. Each token must
// match somewhere: an accent-insensitive substring over the text columns, or
// the exact year when the token parses as an integer. Tokens are ANDed.
func namePredicate(f domain.VehicleFilter) (string, []any, bool) {
	tokens := strings.Fields(f.Name)
	if len(tokens) == 0 {
		return "", nil, false
	}
	var conds []string
	var args []any
	for _, token := range tokens {
		like := "%" + util.FoldForSearch(token) + "%"
		parts := make([]string, 0, len(nameSearchColumns)+1)
		for _, col := range nameSearchColumns {
			parts = append(parts, fmt.Sprintf("unaccent(%s) ILIKE ?", col))
			args = append(args, like)
		}
		if year, err := strconv.Atoi(token); err == nil {
			parts = append(parts, "year = ?")
			args = append(args, year)
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	return strings.Join(conds, " AND "), args, true
}

// containsPredicate builds an accent-insensitive substring match on a column.
func containsPredicate(column string, value func(domain.VehicleFilter) string) predicate {
	return func(f domain.VehicleFilter) (string, []any, bool) {
		v := value(f)
		if v == "" {
			return "", nil, false
		}
		return fmt.Sprintf("unaccent(%s) ILIKE ?", column),
			[]any{"%" + util.FoldForSearch(v) + "%"}, true
	}
}

// locationPredicate matches city/state as a substring normally and anchored
// for the city-state convenience filter.
func locationPredicate(column string, value func(domain.VehicleFilter) string) predicate {
	return func(f domain.VehicleFilter) (string, []any, bool) {
		v := value(f)
		if v == "" {
			return "", nil, false
		}
		folded := util.FoldForSearch(v)
		if f.ExactCityState {
			return fmt.Sprintf("unaccent(%s) ILIKE ?", column), []any{folded}, true
		}
		return fmt.Sprintf("unaccent(%s) ILIKE ?", column), []any{"%" + folded + "%"}, true
	}
}

func intPredicate(cond string, value func(domain.VehicleFilter) *int) predicate {
	return func(f domain.VehicleFilter) (string, []any, bool) {
		v := value(f)
		if v == nil {
			return "", nil, false
		}
		return cond, []any{*v}, true
	}
}

func floatPredicate(cond string, value func(domain.VehicleFilter) *float64) predicate {
	return func(f domain.VehicleFilter) (string, []any, bool) {
		v := value(f)
		if v == nil {
			return "", nil, false
		}
		return cond, []any{*v}, true
	}
}
