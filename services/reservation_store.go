// services/reservation_store.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	mysqlDuplicateEntry  = 1062
	referenceCodeRetries = 5
)

// GormReservationStore is the MySQL-backed ReservationStore.
type GormReservationStore struct {
	DB *gorm.DB
}

func NewGormReservationStore(db *gorm.DB) *GormReservationStore {
	return &GormReservationStore{DB: db}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// releasingStatuses lists the statuses that no longer hold a room. Queries
// exclude these rather than listing holders so unmigrated values still block.
func releasingStatuses() []models.ReservationStatus {
	var out []models.ReservationStatus
	for _, st := range models.AllReservationStatuses {
		if !st.BlocksRoom() {
			out = append(out, st)
		}
	}
	return out
}

func statusStrings(in []models.ReservationStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func (s *GormReservationStore) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error) {
	f = f.Normalize()
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(f.Statuses))
	}
	if f.Origin != "" {
		q = q.Where("origin = ?", string(f.Origin))
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if ref := utils.NormalizeReferenceCode(f.Reference); ref != "" {
		q = q.Where("REPLACE(reference_code, '-', '') = ?", ref)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	var list []models.Reservation
	if err := q.
		Preload("Customer").
		Preload("Room").
		Order("check_in DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return list, total, nil
}

func (s *GormReservationStore) ListByRoom(ctx context.Context, roomID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("check_in ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations for room %d: %w", roomID, err)
	}
	return list, nil
}

func (s *GormReservationStore) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Where("check_in < ? AND check_out > ?", to, from).
		Order("check_in ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations in window: %w", err)
	}
	return list, nil
}

func (s *GormReservationStore) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.DB.WithContext(ctx).Preload("Customer").Preload("Room").First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

// Create locks the room row, re-checks overlap inside the transaction, then
// inserts. Reference code collisions are retried with a fresh code.
func (s *GormReservationStore) Create(ctx context.Context, res *models.Reservation) error {
	var createErr error
	for attempt := 0; attempt < referenceCodeRetries; attempt++ {
		if res.ReferenceCode == "" || attempt > 0 {
			code, err := utils.GenerateReferenceCode()
			if err != nil {
				return fmt.Errorf("failed to generate reference code: %w", err)
			}
			res.ReferenceCode = code
		}
		res.ID = 0

		createErr = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, res.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoomNotFound
				}
				return err
			}

			var overlapping []models.Reservation
			if err := tx.
				Select("id").
				Where("room_id = ? AND status NOT IN ? AND check_in < ? AND check_out > ?",
					res.RoomID, statusStrings(releasingStatuses()), res.CheckOut, res.CheckIn).
				Find(&overlapping).Error; err != nil {
				return err
			}
			if len(overlapping) > 0 {
				ids := make([]uint, 0, len(overlapping))
				for _, o := range overlapping {
					ids = append(ids, o.ID)
				}
				return &ConflictError{RoomID: res.RoomID, ConflictingIDs: ids}
			}

			return tx.Omit(clause.Associations).Create(res).Error
		})
		if createErr == nil {
			return nil
		}
		if isDuplicateKey(createErr) {
			continue
		}
		var conflict *ConflictError
		if errors.As(createErr, &conflict) || errors.Is(createErr, ErrRoomNotFound) {
			return createErr
		}
		return fmt.Errorf("failed to create reservation: %w", createErr)
	}
	return fmt.Errorf("failed to create reservation after retries: %w", createErr)
}

func (s *GormReservationStore) ApplyStatusChange(ctx context.Context, res *models.Reservation, previous models.ReservationStatus) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", res.ID, string(previous)).
		Updates(map[string]interface{}{
			"status":            string(res.Status),
			"payment_received":  res.PaymentReceived,
			"confirmation_time": res.ConfirmationTime,
			"audited_by":        res.AuditedBy,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update reservation %d: %w", res.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", res.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to re-read reservation %d: %w", res.ID, err)
		}
		if count == 0 {
			return ErrReservationNotFound
		}
		return ErrStaleReservation
	}
	return nil
}

func (s *GormReservationStore) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND payment_received = ? AND created_at <= ?", string(models.StatusPending), false, cutoff).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stale pending reservations: %w", err)
	}
	return list, nil
}

func (s *GormReservationStore) CustomerExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("db error checking customer: %w", err)
	}
	return count > 0, nil
}

type idName struct {
	ID   uint
	Name string
}

func (s *GormReservationStore) loadNames(ctx context.Context, model interface{}, nameColumn string) (map[uint]string, error) {
	var rows []idName
	if err := s.DB.WithContext(ctx).Model(model).Select("id, " + nameColumn + " AS name").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Name
	}
	return out, nil
}

// LoadDirectory reads the id -> name projections used by list and board views.
func (s *GormReservationStore) LoadDirectory(ctx context.Context) (Directory, error) {
	customers, err := s.loadNames(ctx, &models.Customer{}, "full_name")
	if err != nil {
		return Directory{}, fmt.Errorf("failed to load customer names: %w", err)
	}
	rooms, err := s.loadNames(ctx, &models.Room{}, "name")
	if err != nil {
		return Directory{}, fmt.Errorf("failed to load room names: %w", err)
	}
	staff, err := s.loadNames(ctx, &models.Admin{}, "full_name")
	if err != nil {
		return Directory{}, fmt.Errorf("failed to load staff names: %w", err)
	}
	return Directory{Customers: customers, Rooms: rooms, Staff: staff}, nil
}

// MigrateLegacyStatuses rewrites every non-canonical stored status once.
// Comparisons are binary: the default collation would treat "pending" as "Pending".
func (s *GormReservationStore) MigrateLegacyStatuses(ctx context.Context, log *logrus.Logger) (int64, error) {
	var raw []string
	if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).Distinct().Pluck("status COLLATE utf8mb4_bin", &raw).Error; err != nil {
		return 0, fmt.Errorf("failed to read stored statuses: %w", err)
	}

	var migrated int64
	for _, value := range raw {
		if models.ReservationStatus(value).IsValid() {
			continue
		}
		target := models.LegacyStatusFromText(value)
		result := s.DB.WithContext(ctx).
			Model(&models.Reservation{}).
			Where("status COLLATE utf8mb4_bin = ?", value).
			Update("status", string(target))
		if result.Error != nil {
			return migrated, fmt.Errorf("failed to migrate status %q: %w", value, result.Error)
		}
		log.WithFields(logrus.Fields{"from": value, "to": target, "rows": result.RowsAffected}).Info("migrated legacy reservation status")
		migrated += result.RowsAffected
	}
	return migrated, nil
}
