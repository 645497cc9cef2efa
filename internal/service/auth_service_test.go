package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/config"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/jwt"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
	}
}

func newAuthService(repo domain.UserRepository, mailer *fakeMailer) domain.AuthService {
	tm := jwt.NewTokenManagerWithoutRedis("test-secret")
	return NewAuthService(repo, tm, mailer, testConfig(), logger.New("info"))
}

func registerReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Username: "ana",
		Email:    "Ana@X.com",
		Password: "Abcdef1!",
		Phone:    "11987654321",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ana@x.com", resp.User.Email)

	stored := repo.users[resp.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Abcdef1!", stored.Password)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *stored.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.Phone = "11911112222"
	_, err = svc.Register(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
	assert.Equal(t, "E-mail já cadastrado", appErr.Message)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.Email = "other@x.com"
	_, err = svc.Register(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Telefone já cadastrado", appErr.Message)
}

func TestLoginUniformFailureMessage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(context.Background(), domain.LoginRequest{Email: "nobody@x.com", Password: "Abcdef1!"})
	_, errWrongPwd := svc.Login(context.Background(), domain.LoginRequest{Email: "ana@x.com", Password: "Wrong1!aa"})

	var appErr1, appErr2 *apperror.AppError
	require.ErrorAs(t, errUnknown, &appErr1)
	require.ErrorAs(t, errWrongPwd, &appErr2)
	assert.Equal(t, "Credenciais inválidas", appErr1.Message)
	assert.Equal(t, appErr1.Message, appErr2.Message)
	assert.Equal(t, appErr1.StatusCode(), appErr2.StatusCode())
	assert.Equal(t, 400, appErr1.StatusCode())
}

func TestLoginSuccessRotatesRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})
	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), domain.LoginRequest{Email: "ana@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	assert.Empty(t, resp.User.Password)
	assert.Nil(t, resp.User.RefreshToken)

	stored := repo.users[reg.User.ID]
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *stored.RefreshToken)
}

func TestRefreshRejectsSupersededToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})
	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	oldRefresh := reg.RefreshToken

	// A newer session replaced the persisted token; only the stored value
	// authorizes a refresh, regardless of the old token's validity.
	newer := oldRefresh + ".superseded"
	stored := repo.users[reg.User.ID]
	stored.RefreshToken = &newer

	_, err = svc.RefreshToken(context.Background(), oldRefresh)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())
}

func TestRefreshRotates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeMailer{})
	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	stored := repo.users[reg.User.ID]
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), &fakeMailer{})
	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())
}

func TestForgotAndResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newAuthService(repo, mailer)
	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ana@x.com"))
	require.Equal(t, []string{"ana@x.com"}, mailer.sentTo)
	require.NotEmpty(t, mailer.lastToken)

	require.NoError(t, svc.ResetPassword(context.Background(), mailer.lastToken, "Newpass1!"))

	stored := repo.users[reg.User.ID]
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpires)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "ana@x.com", Password: "Abcdef1!"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "ana@x.com", Password: "Newpass1!"})
	assert.NoError(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newAuthService(repo, mailer)
	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "ana@x.com"))

	// Force the expiry into the past.
	stored := repo.users[reg.User.ID]
	expired := time.Now().Add(-time.Minute)
	stored.ResetPasswordExpires = &expired

	err = svc.ResetPassword(context.Background(), mailer.lastToken, "Newpass1!")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Token inválido ou expirado", appErr.Message)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), &fakeMailer{})
	err := svc.ForgotPassword(context.Background(), "ghost@x.com")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode())
}
