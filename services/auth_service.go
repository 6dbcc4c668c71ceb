package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
	"github.com/techagentng/complaintx/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	SignupUser(req *models.SignupRequest) (*models.User, error)
	LoginUser(req *models.LoginRequest) (*models.LoginResponse, error)
	RegisterDeviceToken(userID uint, req *models.RegisterTokenRequest) error
}

type authService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

func NewAuthService(userRepo db.UserRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (s *authService) SignupUser(req *models.SignupRequest) (*models.User, error) {
	if err := models.ConformInput(req); err != nil {
		return nil, errs.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, errs.New(err.Error(), http.StatusBadRequest)
	}
	if err := s.userRepo.IsEmailExist(req.Email); err != nil {
		return nil, errs.New(err.Error(), http.StatusConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Fullname:       req.Fullname,
		Username:       req.Username,
		Email:          req.Email,
		Telephone:      req.Telephone,
		HashedPassword: string(hashed),
		Active:         true,
	}
	created, err := s.userRepo.CreateUser(user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

func (s *authService) LoginUser(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New("invalid email or password", http.StatusUnauthorized)
		}
		return nil, err
	}
	if !user.Active {
		return nil, errs.InActiveUserError
	}
	if err := user.VerifyPassword(req.Password); err != nil {
		return nil, errs.New("invalid email or password", http.StatusUnauthorized)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Role.Name, s.Config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.LoginResponse{
		UserResponse: user.Response(),
		AccessToken:  token,
	}, nil
}

func (s *authService) RegisterDeviceToken(userID uint, req *models.RegisterTokenRequest) error {
	token := &models.DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := s.userRepo.SaveDeviceToken(token); err != nil {
		return fmt.Errorf("error saving device token: %w", err)
	}
	return nil
}
