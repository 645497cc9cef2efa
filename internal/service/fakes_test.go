package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/domain"
)

// In-memory fakes for the repository, storage and mail boundaries.

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Phone != nil && *u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type fakeVehicleRepo struct {
	vehicles map[uint]*domain.Vehicle
	nextID   uint
}

func newFakeVehicleRepoWith(vehicles ...domain.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: map[uint]*domain.Vehicle{}, nextID: 1}
	for i := range vehicles {
		v := vehicles[i]
		if v.ID == 0 {
			v.ID = r.nextID
		}
		if v.ID >= r.nextID {
			r.nextID = v.ID + 1
		}
		r.vehicles[v.ID] = &v
	}
	return r
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *domain.Vehicle) error {
	v.ID = r.nextID
	v.CreatedAt = time.Now()
	r.nextID++
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id uint) (*domain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) GetByIDAndOwner(_ context.Context, id, ownerID uint) (*domain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok || v.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

// List ignores the filter and pages over all vehicles sorted by id; filter
// behavior is covered by the repository tests.
func (r *fakeVehicleRepo) List(_ context.Context, _ domain.VehicleFilter, page domain.PageRequest) ([]domain.Vehicle, int64, error) {
	all := make([]domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		all = append(all, *v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := (page.Page - 1) * page.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeVehicleRepo) ListIDsByOwner(_ context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	for id, v := range r.vehicles {
		if v.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *domain.Vehicle) error {
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.vehicles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func (r *fakeVehicleRepo) DeleteByOwner(_ context.Context, ownerID uint) error {
	for id, v := range r.vehicles {
		if v.OwnerID == ownerID {
			delete(r.vehicles, id)
		}
	}
	return nil
}

type fakeImageRepo struct {
	images map[uint]*domain.Image
	nextID uint
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[uint]*domain.Image{}, nextID: 1}
}

func (r *fakeImageRepo) Create(_ context.Context, img *domain.Image) error {
	img.ID = r.nextID
	img.CreatedAt = time.Now()
	r.nextID++
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *fakeImageRepo) GetByIDAndVehicle(_ context.Context, id, vehicleID uint) (*domain.Image, error) {
	img, ok := r.images[id]
	if !ok || img.VehicleID != vehicleID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *fakeImageRepo) ListByVehicle(_ context.Context, vehicleID uint) ([]domain.Image, error) {
	var out []domain.Image
	for _, img := range r.images {
		if img.VehicleID == vehicleID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeImageRepo) FirstByVehicle(ctx context.Context, vehicleID uint) (*domain.Image, error) {
	images, err := r.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &images[0], nil
}

func (r *fakeImageRepo) CountByVehicle(ctx context.Context, vehicleID uint) (int64, error) {
	images, _ := r.ListByVehicle(ctx, vehicleID)
	return int64(len(images)), nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.images[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) DeleteByVehicle(_ context.Context, vehicleID uint) error {
	for id, img := range r.images {
		if img.VehicleID == vehicleID {
			delete(r.images, id)
		}
	}
	return nil
}

type fakeStore struct {
	objects   map[string][]byte
	deleted   []string
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, key, _ string, data []byte) error {
	s.objects[key] = data
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) URL(key string) string {
	return "https://cdn.test/vehicle-images/" + key
}

type fakeMailer struct {
	sentTo     []string
	lastToken  string
	forcedFail error
}

func (m *fakeMailer) SendPasswordReset(to, resetToken string) error {
	if m.forcedFail != nil {
		return m.forcedFail
	}
	m.sentTo = append(m.sentTo, to)
	m.lastToken = resetToken
	return nil
}
