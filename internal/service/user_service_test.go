package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email, phone string) *domain.User {
	t.Helper()
	user := &domain.User{Username: "ana", Email: email, Password: "hash"}
	if phone != "" {
		user.Phone = &phone
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUpdateProfilePartialMerge(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "ana@x.com", "11987654321")
	svc := NewUserService(userRepo, newFakeVehicleRepoWith(), newFakeImageRepo(), newFakeStore(), logger.New("info"))

	city := "Campinas"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, domain.UpdateProfileRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Campinas", updated.City)
	assert.Equal(t, "ana", updated.Username)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "11987654321", *updated.Phone)
}

func TestUpdateProfilePhoneTakenByAnother(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "ana@x.com", "11987654321")
	seedUser(t, userRepo, "bia@x.com", "11912345678")
	svc := NewUserService(userRepo, newFakeVehicleRepoWith(), newFakeImageRepo(), newFakeStore(), logger.New("info"))

	taken := "11912345678"
	_, err := svc.UpdateProfile(context.Background(), user.ID, domain.UpdateProfileRequest{Phone: &taken})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
	assert.Equal(t, "Telefone já cadastrado", appErr.Message)
}

func TestUpdateProfileKeepOwnPhone(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "ana@x.com", "11987654321")
	svc := NewUserService(userRepo, newFakeVehicleRepoWith(), newFakeImageRepo(), newFakeStore(), logger.New("info"))

	// Resubmitting the current phone number is not a conflict.
	same := "11987654321"
	_, err := svc.UpdateProfile(context.Background(), user.ID, domain.UpdateProfileRequest{Phone: &same})
	require.NoError(t, err)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeVehicleRepoWith(), newFakeImageRepo(), newFakeStore(), logger.New("info"))

	name := "novo"
	_, err := svc.UpdateProfile(context.Background(), 99, domain.UpdateProfileRequest{Username: &name})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestDeleteAccountCascades(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "ana@x.com", "")
	vehicleRepo := newFakeVehicleRepoWith(
		vehicleFixture(1, user.ID),
		vehicleFixture(2, user.ID),
		vehicleFixture(3, 42), // someone else's listing survives
	)
	imageRepo := newFakeImageRepo()
	store := newFakeStore()
	require.NoError(t, imageRepo.Create(context.Background(), &domain.Image{VehicleID: 1, ObjectKey: "vehicles/1/a.jpg"}))
	require.NoError(t, imageRepo.Create(context.Background(), &domain.Image{VehicleID: 2, ObjectKey: "vehicles/2/b.jpg"}))
	require.NoError(t, imageRepo.Create(context.Background(), &domain.Image{VehicleID: 3, ObjectKey: "vehicles/3/c.jpg"}))

	svc := NewUserService(userRepo, vehicleRepo, imageRepo, store, logger.New("info"))
	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))

	exists, err := userRepo.Exists(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = vehicleRepo.GetByID(context.Background(), 1)
	assert.Error(t, err)
	_, err = vehicleRepo.GetByID(context.Background(), 3)
	assert.NoError(t, err)

	assert.ElementsMatch(t, []string{"vehicles/1/a.jpg", "vehicles/2/b.jpg"}, store.deleted)
	count, err := imageRepo.CountByVehicle(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeVehicleRepoWith(), newFakeImageRepo(), newFakeStore(), logger.New("info"))

	err := svc.DeleteAccount(context.Background(), 99)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode())
}
