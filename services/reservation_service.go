// services/reservation_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ReservationService wires the lifecycle engine to persistence.
type ReservationService struct {
	store         ReservationStore
	rooms         RoomStore
	clock         Clock
	cache         StatsCache
	log           *logrus.Logger
	pendingExpiry time.Duration
}

type ReservationServiceOption func(*ReservationService)

func WithClock(c Clock) ReservationServiceOption {
	return func(s *ReservationService) { s.clock = c }
}

func WithStatsCache(c StatsCache) ReservationServiceOption {
	return func(s *ReservationService) { s.cache = c }
}

func WithPendingExpiry(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) { s.pendingExpiry = d }
}

func NewReservationService(store ReservationStore, rooms RoomStore, log *logrus.Logger, opts ...ReservationServiceOption) *ReservationService {
	s := &ReservationService{
		store:         store,
		rooms:         rooms,
		clock:         RealClock{},
		cache:         NoopStatsCache{},
		log:           log,
		pendingExpiry: DefaultPendingExpiry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccompanyingGuest is one extra traveller listed on a reservation.
type AccompanyingGuest struct {
	FullName string `json:"fullName"`
	Type     string `json:"type"`
}

// CreateReservationInput is what staff or the mobile app submit.
type CreateReservationInput struct {
	CustomerID         uint
	RoomID             uint
	CheckIn            time.Time
	CheckOut           time.Time
	Origin             models.ReservationOrigin
	Guests             models.GuestBreakdown
	PaymentReceived    bool
	Notes              string
	AccompanyingGuests []AccompanyingGuest
	CreatedBy          *uint
}

// ReservationView is a reservation enriched for display.
type ReservationView struct {
	models.Reservation
	CustomerName  string                     `json:"customer_name"`
	RoomName      string                     `json:"room_name"`
	AuditedByName string                     `json:"audited_by_name,omitempty"`
	Nights        int                        `json:"nights"`
	TotalPrice    float64                    `json:"total_price"`
	Category      models.StatusCategory      `json:"category"`
	StatusLabel   string                     `json:"status_label"`
	AllowedNext   []models.ReservationStatus `json:"allowed_next"`
}

// AvailabilityResult answers a single room availability query.
type AvailabilityResult struct {
	RoomID         uint      `json:"room_id"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	Available      bool      `json:"available"`
	Nights         int       `json:"nights"`
	TotalPrice     float64   `json:"total_price"`
	ConflictingIDs []uint    `json:"conflicting_ids"`
}

func normalizeAccompanyingGuests(in []AccompanyingGuest) []AccompanyingGuest {
	out := make([]AccompanyingGuest, 0, len(in))
	for _, g := range in {
		name := strings.TrimSpace(g.FullName)
		if name == "" {
			continue
		}
		typ := strings.TrimSpace(g.Type)
		if typ == "" {
			typ = "Adult"
		}
		out = append(out, AccompanyingGuest{FullName: name, Type: typ})
	}
	return out
}

func initialStatus(origin models.ReservationOrigin, paid bool) models.ReservationStatus {
	if origin == models.OriginMobile {
		return models.StatusPending
	}
	if paid {
		return models.StatusAccepted
	}
	return models.StatusConfirmedPendingPayment
}

func (s *ReservationService) loadRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// CreateReservation validates the request, checks availability against a
// snapshot and lets the store re-check under lock while inserting.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if !in.CheckOut.After(in.CheckIn) || utils.NightsBetween(in.CheckIn, in.CheckOut) < 1 {
		return nil, ErrInvalidInterval
	}
	if !in.Origin.IsValid() {
		return nil, ErrInvalidOrigin
	}
	if !in.Guests.Valid() {
		return nil, ErrInvalidGuests
	}

	room, err := s.loadRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomInactive
	}
	if room.Capacity > 0 && in.Guests.Total() > room.Capacity {
		return nil, ErrCapacityExceeded
	}

	ok, err := s.store.CustomerExists(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCustomerNotFound
	}

	existing, err := s.store.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	conflicts, err := ConflictingReservations(*room, in.CheckIn, in.CheckOut, existing)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		ids := make([]uint, 0, len(conflicts))
		for _, c := range conflicts {
			ids = append(ids, c.ID)
		}
		return nil, &ConflictError{RoomID: room.ID, ConflictingIDs: ids}
	}

	res := &models.Reservation{
		CustomerID: in.CustomerID,
		RoomID:     room.ID,
		CheckIn:    in.CheckIn.UTC(),
		CheckOut:   in.CheckOut.UTC(),
		Origin:     in.Origin,
		Guests:     in.Guests,
		Notes:      strings.TrimSpace(in.Notes),
	}
	if guests := normalizeAccompanyingGuests(in.AccompanyingGuests); len(guests) > 0 {
		b, err := json.Marshal(guests)
		if err != nil {
			return nil, fmt.Errorf("failed to encode accompanying guests: %w", err)
		}
		res.AccompanyingGuests = datatypes.JSON(b)
	}
	ApplyTransition(res, initialStatus(in.Origin, in.PaymentReceived), s.clock.Now(), in.CreatedBy)

	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"reference_code": res.ReferenceCode,
		"room_id":        res.RoomID,
		"status":         res.Status,
		"origin":         res.Origin,
	}).Info("reservation created")
	return res, nil
}

// ChangeStatus validates and commits a staff-requested transition.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uint, to models.ReservationStatus, auditedBy *uint) (*models.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := res.Status
	if err := ValidateTransition(previous, to, res.Origin); err != nil {
		s.log.WithFields(logrus.Fields{
			"reservation_id": id,
			"from":           previous,
			"to":             to,
			"origin":         res.Origin,
		}).Warn("rejected status transition")
		return nil, err
	}

	ApplyTransition(res, to, s.clock.Now(), auditedBy)
	if err := s.store.ApplyStatusChange(ctx, res, previous); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	s.log.WithFields(logrus.Fields{
		"reservation_id": id,
		"from":           previous,
		"to":             to,
	}).Info("reservation status changed")
	return res, nil
}

func (s *ReservationService) AllowedTransitions(ctx context.Context, id uint) ([]models.ReservationStatus, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return AllowedNextStatuses(res.Status, res.Origin), nil
}

func (s *ReservationService) view(res models.Reservation, dir Directory) ReservationView {
	v := ReservationView{
		Reservation:   res,
		CustomerName:  dir.CustomerName(res.CustomerID),
		RoomName:      dir.RoomName(res.RoomID),
		AuditedByName: dir.StaffName(res.AuditedBy),
		Nights:        utils.NightsBetween(res.CheckIn, res.CheckOut),
		Category:      res.Status.Category(),
		StatusLabel:   res.Status.Description(),
		AllowedNext:   AllowedNextStatuses(res.Status, res.Origin),
	}
	if res.Room != nil {
		_, v.TotalPrice = Quote(*res.Room, res.CheckIn, res.CheckOut)
	}
	return v
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*ReservationView, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dir, err := s.store.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	v := s.view(*res, dir)
	return &v, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, filter ReservationFilter) ([]ReservationView, int64, error) {
	list, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dir, err := s.store.LoadDirectory(ctx)
	if err != nil {
		return nil, 0, err
	}
	views := make([]ReservationView, 0, len(list))
	for _, r := range list {
		views = append(views, s.view(r, dir))
	}
	return views, total, nil
}

func (s *ReservationService) CheckAvailability(ctx context.Context, roomID uint, start, end time.Time) (*AvailabilityResult, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	conflicts, err := ConflictingReservations(*room, start, end, existing)
	if err != nil {
		return nil, err
	}
	nights, total := Quote(*room, start, end)
	out := &AvailabilityResult{
		RoomID:         roomID,
		CheckIn:        start,
		CheckOut:       end,
		Available:      len(conflicts) == 0,
		Nights:         nights,
		TotalPrice:     total,
		ConflictingIDs: []uint{},
	}
	for _, c := range conflicts {
		out.ConflictingIDs = append(out.ConflictingIDs, c.ID)
	}
	return out, nil
}

// RoomBoard labels every room as of the service clock.
func (s *ReservationService) RoomBoard(ctx context.Context) ([]RoomSummary, error) {
	now := s.clock.Now()
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	// a stay contains now iff it overlaps [now, now+1ns)
	current, err := s.store.ListOverlapping(ctx, now, now.Add(time.Nanosecond))
	if err != nil {
		return nil, err
	}
	dir, err := s.store.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRoomBoard(rooms, current, dir, now), nil
}

// Statistics aggregates the closed window [from, to] over active rooms.
func (s *ReservationService) Statistics(ctx context.Context, from, to time.Time) (Statistics, error) {
	from, to = utils.DateUTC(from), utils.DateUTC(to)

	// the key is taken before any read so a concurrent write retires it
	key, err := s.cache.Key(ctx, from, to)
	if err != nil {
		s.log.WithError(err).Warn("stats cache read failed")
	} else if key != "" {
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.WithError(err).Warn("stats cache read failed")
		} else if ok {
			return *cached, nil
		}
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return Statistics{}, err
	}
	active := 0
	for _, r := range rooms {
		if r.IsActive {
			active++
		}
	}
	if IsDegenerateWindow(active, from, to) {
		s.log.WithFields(logrus.Fields{
			"from":         utils.FormatDate(from),
			"to":           utils.FormatDate(to),
			"active_rooms": active,
		}).Warn("degenerate statistics window")
		return Statistics{}, nil
	}

	list, err := s.store.ListOverlapping(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return Statistics{}, err
	}
	st := ComputeStatistics(list, active, from, to)

	if key != "" {
		if err := s.cache.Set(ctx, key, st); err != nil {
			s.log.WithError(err).Warn("stats cache write failed")
		}
	}
	return st, nil
}

// ExpireStalePending closes unpaid Pending reservations older than the expiry
// window. A reservation changed concurrently is skipped, not failed.
func (s *ReservationService) ExpireStalePending(ctx context.Context) (int, error) {
	now := s.clock.Now()
	candidates, err := s.store.ListPendingCreatedBefore(ctx, now.Add(-s.pendingExpiry))
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		res := candidates[i]
		if !CanExpire(res, now, s.pendingExpiry) {
			continue
		}
		previous := res.Status
		ApplyTransition(&res, models.StatusExpired, now, nil)
		if err := s.store.ApplyStatusChange(ctx, &res, previous); err != nil {
			if errors.Is(err, ErrStaleReservation) || errors.Is(err, ErrReservationNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	if expired > 0 {
		s.invalidateStats(ctx)
		s.log.WithField("count", expired).Info("expired stale pending reservations")
	}
	return expired, nil
}

func (s *ReservationService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("stats cache invalidation failed")
	}
}

// Now is the service clock, exposed so handlers default dates consistently.
func (s *ReservationService) Now() time.Time {
	return s.clock.Now()
}
