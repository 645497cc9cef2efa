package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
	"github.com/william-rossi/pontocarro-api/internal/config"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/mail"
	"github.com/william-rossi/pontocarro-api/internal/util"
	"github.com/william-rossi/pontocarro-api/pkg/jwt"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

// authService implements domain.AuthService.
type authService struct {
	repo         domain.UserRepository
	tokenManager jwt.TokenManager
	mailer       mail.Mailer
	cfg          *config.Config
	log          *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo domain.UserRepository, tokenManager jwt.TokenManager, mailer mail.Mailer, cfg *config.Config, log *logger.Logger) domain.AuthService {
	return &authService{repo: repo, tokenManager: tokenManager, mailer: mailer, cfg: cfg, log: log}
}

// Register creates a new account and opens its first session.
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(req.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.NewConflict("E-mail já cadastrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewDatabase("failed to check email", err)
	}
	if req.Phone != "" {
		if _, err := s.repo.GetByPhone(ctx, req.Phone); err == nil {
			return nil, apperror.NewConflict("Telefone já cadastrado")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewDatabase("failed to check phone", err)
		}
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	user := &domain.User{
		Username: req.Username,
		Email:    email,
		Password: hashedPassword,
		City:     req.City,
		State:    req.State,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.NewDatabase("failed to create user", err)
	}

	return s.openSession(ctx, user)
}

// Login authenticates by email and password. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewBadRequest("Credenciais inválidas")
		}
		return nil, apperror.NewDatabase("failed to get user", err)
	}
	if err := util.CheckPassword(user.Password, req.Password); err != nil {
		return nil, apperror.NewBadRequest("Credenciais inválidas")
	}
	return s.openSession(ctx, user)
}

// openSession issues a token pair and rotates the persisted refresh token,
// superseding any previously active session.
func (s *authService) openSession(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	accessToken, refreshToken, err := s.tokenManager.GenerateTokens(
		user.ID, user.Email, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate tokens", err)
	}

	if user.RefreshToken != nil {
		if err := s.tokenManager.RevokeRefreshToken(*user.RefreshToken); err != nil {
			s.log.Warnf("failed to blacklist superseded refresh token: %v", err)
		}
	}
	user.RefreshToken = &refreshToken
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperror.NewDatabase("failed to persist refresh token", err)
	}

	publicUser := *user
	publicUser.Password = ""
	publicUser.RefreshToken = nil

	return &domain.AuthResponse{
		User:         publicUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. Only the most
// recently issued refresh token for a user authorizes a refresh.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.NewAuth("Refresh token inválido ou expirado")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewAuth("Refresh token inválido ou expirado")
		}
		return nil, apperror.NewDatabase("failed to get user", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		// Superseded by a newer login/refresh.
		return nil, apperror.NewAuth("Refresh token inválido ou expirado")
	}

	resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// ForgotPassword stores a short-lived opaque reset token and emails the link.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("Usuário não encontrado")
		}
		return apperror.NewDatabase("failed to get user", err)
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return apperror.NewInternal("failed to generate reset token", err)
	}
	expires := time.Now().Add(s.cfg.ResetTokenTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpires = &expires
	if err := s.repo.Update(ctx, user); err != nil {
		return apperror.NewDatabase("failed to persist reset token", err)
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		return apperror.NewInternal("Falha ao enviar e-mail de redefinição", err)
	}
	return nil
}

// ResetPassword finishes a reset: exact token match plus unexpired window.
func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.repo.GetByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewBadRequest("Token inválido ou expirado")
		}
		return apperror.NewDatabase("failed to get user", err)
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return apperror.NewInternal("failed to hash password", err)
	}
	user.Password = hashedPassword
	user.ResetPasswordToken = nil
	user.ResetPasswordExpires = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return apperror.NewDatabase("failed to update password", err)
	}
	return nil
}
