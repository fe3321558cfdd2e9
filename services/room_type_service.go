package services

import (
	"context"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

func (s *RoomTypeService) Create(ctx context.Context, rt *models.RoomType) error {
	return s.DB.WithContext(ctx).Create(rt).Error
}

func (s *RoomTypeService) GetAll(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.DB.WithContext(ctx).Order("type_name ASC").Find(&types).Error
	return types, err
}
