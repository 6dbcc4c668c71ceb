package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered citizen or admin of the application
type User struct {
	Model
	Fullname       string         `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username       string         `json:"username" binding:"required,min=2" conform:"trim"`
	Telephone      string         `json:"telephone" gorm:"default:null"`
	Email          string         `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,lower"`
	Password       string         `json:"password,omitempty" gorm:"-" validate:"omitempty,min=4"`
	HashedPassword string         `json:"-"`
	Active         bool           `json:"active" gorm:"default:true"`
	Points         int            `json:"points" gorm:"default:0"`
	RoleID         uuid.UUID      `gorm:"type:uuid" json:"role_id"`
	Role           Role           `gorm:"foreignKey:RoleID" json:"role"`
	DeviceTokens   []DeviceToken  `gorm:"foreignKey:UserID" json:"device_tokens,omitempty"`
	Notifications  []Notification `gorm:"foreignKey:UserID" json:"-"`
}

// DeviceToken is a push-notification delivery token registered by a user's device
type DeviceToken struct {
	Model
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	Token    string `json:"token" gorm:"not null"`
	Platform string `json:"platform"` // android, ios or web
}

type SignupRequest struct {
	Fullname  string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username  string `json:"username" binding:"required,min=2" conform:"trim"`
	Email     string `json:"email" binding:"required,email" conform:"trim,lower"`
	Telephone string `json:"telephone"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Points   int    `json:"points"`
	RoleName string `json:"role_name"`
}

type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=android ios web"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(15, errors.New("password cant be more than 15 characters")))
	err := passwordValidator.Validate(password)
	return err
}

// ConformInput trims and normalizes tagged string fields in place
func ConformInput(data interface{}) error {
	return conform.Strings(data)
}

func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Fullname: u.Fullname,
		Username: u.Username,
		Email:    u.Email,
		Points:   u.Points,
		RoleName: u.Role.Name,
	}
}
