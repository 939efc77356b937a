package auth

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"

type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"notblank,max=100"`
	LastName        string `json:"last_name" validate:"max=100"`
	Email           string `json:"email" validate:"required,min=6,max=254,email"`
	Password        string `json:"password" validate:"required,min=8,max=255"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	errs := validator.Struct(r)

	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,min=6,max=254,email"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=1024"`
}

func (r *RefreshTokenRequest) Validate() error {
	return validator.Struct(r).Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
