package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-backoffice/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminNotFound      = errors.New("staff account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// Create hashes the plaintext password before insert.
func (s *AdminService) Create(ctx context.Context, admin *models.Admin, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Username = strings.TrimSpace(admin.Username)
	admin.Password = string(hash)
	if admin.Role == "" {
		admin.Role = models.RoleStaff
	}
	if err := s.DB.WithContext(ctx).Create(admin).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (s *AdminService) GetAll(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := s.DB.WithContext(ctx).Order("username ASC").Find(&admins).Error
	return admins, err
}

func (s *AdminService) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Deactivate disables login and soft-deletes the account. Reservations keep
// their AuditedBy reference.
func (s *AdminService) Deactivate(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Admin{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAdminNotFound
		}
		return tx.Delete(&models.Admin{}, id).Error
	})
}

// Authenticate checks credentials for an active account.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}
