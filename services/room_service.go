package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-backoffice/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RoomService is the room registry. It satisfies RoomStore.
//
// Occupancy statistics divide by the active room count, so every successful
// write drops the statistics cache.
type RoomService struct {
	DB    *gorm.DB
	Cache StatsCache
	Log   *logrus.Logger
}

func NewRoomService(db *gorm.DB, cache StatsCache, log *logrus.Logger) *RoomService {
	if cache == nil {
		cache = NoopStatsCache{}
	}
	return &RoomService{DB: db, Cache: cache, Log: log}
}

func (s *RoomService) invalidateStats(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil && s.Log != nil {
		s.Log.WithError(err).Warn("stats cache invalidation failed")
	}
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	if room.RoomTypeID != nil {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.RoomType{}).Where("id = ?", *room.RoomTypeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRoomTypeNotFound
		}
	}
	if err := s.DB.WithContext(ctx).Omit("RoomType").Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrRoomNameTaken
		}
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.WithContext(ctx).Preload("RoomType").Order("name ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

// Update applies only the supplied columns.
func (s *RoomService) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Room, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			if isDuplicateKey(err) {
				return nil, ErrRoomNameTaken
			}
			return nil, fmt.Errorf("failed to update room: %w", err)
		}
		s.invalidateStats(ctx)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a room. Rooms still held by a reservation are kept.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	var live int64
	if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ? AND status NOT IN ?", id, statusStrings(releasingStatuses())).
		Count(&live).Error; err != nil {
		return err
	}
	if live > 0 {
		return ErrRoomInUse
	}
	if err := s.DB.WithContext(ctx).Delete(&models.Room{}, id).Error; err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}
