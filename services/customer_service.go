package services

import (
	"context"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

// Create fills customer.ID on success.
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	return s.DB.WithContext(ctx).Create(customer).Error
}

// List pages customers, optionally filtered by a name/email/phone substring.
func (s *CustomerService) List(ctx context.Context, search string, page, perPage int) ([]models.Customer, int64, error) {
	f := ReservationFilter{Page: page, PerPage: perPage}.Normalize()
	q := s.DB.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var customers []models.Customer
	err := q.Order("full_name ASC").Offset((f.Page - 1) * f.PerPage).Limit(f.PerPage).Find(&customers).Error
	return customers, total, err
}
