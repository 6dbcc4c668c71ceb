package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	GetAllUsers() ([]models.User, error)
	FindRoleByName(name string) (*models.Role, error)
	SaveDeviceToken(token *models.DeviceToken) error
	GetDeviceTokens(userID uint) ([]models.DeviceToken, error)
	SaveNotification(notification *models.Notification) error
	GetNotifications(userID uint) ([]models.Notification, error)
	MarkNotificationRead(userID uint, notificationID uint) error
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (u *userRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	if user.RoleID == uuid.Nil {
		role, err := u.FindRoleByName(models.RoleUser)
		if err != nil {
			return nil, errors.Wrap(err, "assigning default role")
		}
		user.RoleID = role.ID
	}

	if err := u.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (u *userRepo) IsEmailExist(email string) error {
	var count int64
	err := u.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return fmt.Errorf("email already in use")
	}
	return nil
}

func (u *userRepo) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := u.DB.Preload("Role").Where("email = ?", email).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userRepo) FindUserByID(id uint) (*models.User, error) {
	user := &models.User{}
	err := u.DB.Preload("Role").First(user, id).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userRepo) UpdateUser(user *models.User) error {
	return u.DB.Save(user).Error
}

func (u *userRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := u.DB.Preload("Role").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *userRepo) FindRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	err := u.DB.Where("name = ?", name).First(role).Error
	if err != nil {
		return nil, errors.Wrapf(err, "could not find role %q", name)
	}
	return role, nil
}

func (u *userRepo) SaveDeviceToken(token *models.DeviceToken) error {
	var existing models.DeviceToken
	err := u.DB.Where("user_id = ? AND token = ?", token.UserID, token.Token).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return u.DB.Create(token).Error
		}
		return err
	}
	existing.Platform = token.Platform
	return u.DB.Save(&existing).Error
}

func (u *userRepo) GetDeviceTokens(userID uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := u.DB.Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (u *userRepo) SaveNotification(notification *models.Notification) error {
	return u.DB.Create(notification).Error
}

func (u *userRepo) GetNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := u.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (u *userRepo) MarkNotificationRead(userID uint, notificationID uint) error {
	result := u.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
