package domain

import (
	"context"
	"time"
)

// User represents a marketplace account. Secrets and session state never
// appear in JSON responses.
type User struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	Username             string     `json:"username" gorm:"size:100;not null"`
	Email                string     `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Password             string     `json:"-" gorm:"not null"`
	Phone                *string    `json:"phone,omitempty" gorm:"size:11;uniqueIndex"`
	City                 string     `json:"city,omitempty" gorm:"size:100"`
	State                string     `json:"state,omitempty" gorm:"size:50"`
	RefreshToken         *string    `json:"-"`
	ResetPasswordToken   *string    `json:"-" gorm:"index"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,strongpassword"`
	Phone    string `json:"phone" binding:"omitempty,phonebr"`
	City     string `json:"city" binding:"omitempty,max=100"`
	State    string `json:"state" binding:"omitempty,max=50"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token being exchanged.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest finishes a password reset.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,strongpassword"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are untouched.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,phonebr"`
	City     *string `json:"city" binding:"omitempty,max=100"`
	State    *string `json:"state" binding:"omitempty,max=50"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is returned by the refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserRepository is the persistence boundary for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

// AuthService handles registration, sessions and password recovery.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// UserService handles profile mutation and account deletion.
type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*User, error)
	DeleteAccount(ctx context.Context, userID uint) error
	Exists(ctx context.Context, userID uint) (bool, error)
}
