package services

import (
	"errors"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// ErrInvalidCredentials is returned when login fails. The message is
// deliberately identical for unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginInput is a staff sign-in request.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService signs staff in and issues JWTs.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Login verifies credentials and returns an access/refresh token pair.
func (s *AuthService) Login(in LoginInput) (TokenPair, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if orm.IsNotFound(err) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Token: token, RefreshToken: refresh}, nil
}

// Register creates a staff account with a hashed password.
func (s *AuthService) Register(name, email, password, role string, outletID *uint) (models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		OutletID: outletID,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
