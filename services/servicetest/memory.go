// Package servicetest provides in-memory stores for exercising the
// reservation engine without MySQL.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

// MemoryStore implements services.ReservationStore and services.RoomStore.
type MemoryStore struct {
	mu           sync.Mutex
	nextID       uint
	reservations map[uint]models.Reservation
	rooms        map[uint]models.Room
	customers    map[uint]string
	staff        map[uint]string
	now          func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		reservations: map[uint]models.Reservation{},
		rooms:        map[uint]models.Room{},
		customers:    map[uint]string{},
		staff:        map[uint]string{},
		now:          now,
	}
}

func (m *MemoryStore) AddRoom(r models.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
}

func (m *MemoryStore) AddCustomer(id uint, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[id] = name
}

func (m *MemoryStore) AddStaff(id uint, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[id] = name
}

// Seed stores r as-is (ID and CreatedAt included) and returns its id.
func (m *MemoryStore) Seed(r models.Reservation) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	} else if r.ID > m.nextID {
		m.nextID = r.ID
	}
	m.reservations[r.ID] = r
	return r.ID
}

// Reservation returns the stored copy.
func (m *MemoryStore) Reservation(id uint) (models.Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	return r, ok
}

func (m *MemoryStore) sorted(keep func(models.Reservation) bool) []models.Reservation {
	out := []models.Reservation{}
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) withRelations(r models.Reservation) models.Reservation {
	if room, ok := m.rooms[r.RoomID]; ok {
		rc := room
		r.Room = &rc
	}
	return r
}

func (m *MemoryStore) List(_ context.Context, f services.ReservationFilter) ([]models.Reservation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f = f.Normalize()
	statuses := map[models.ReservationStatus]bool{}
	for _, s := range f.Statuses {
		statuses[s] = true
	}
	ref := utils.NormalizeReferenceCode(f.Reference)
	all := m.sorted(func(r models.Reservation) bool {
		if len(statuses) > 0 && !statuses[r.Status] {
			return false
		}
		if f.Origin != "" && r.Origin != f.Origin {
			return false
		}
		if f.RoomID != 0 && r.RoomID != f.RoomID {
			return false
		}
		if f.CustomerID != 0 && r.CustomerID != f.CustomerID {
			return false
		}
		if ref != "" && utils.NormalizeReferenceCode(r.ReferenceCode) != ref {
			return false
		}
		return true
	})
	total := int64(len(all))
	start := (f.Page - 1) * f.PerPage
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PerPage
	if end > len(all) {
		end = len(all)
	}
	page := make([]models.Reservation, 0, end-start)
	for _, r := range all[start:end] {
		page = append(page, m.withRelations(r))
	}
	return page, total, nil
}

func (m *MemoryStore) ListByRoom(_ context.Context, roomID uint) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r models.Reservation) bool { return r.RoomID == roomID }), nil
}

func (m *MemoryStore) ListOverlapping(_ context.Context, from, to time.Time) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r models.Reservation) bool {
		return utils.IntervalsOverlap(r.CheckIn, r.CheckOut, from, to)
	}), nil
}

func (m *MemoryStore) Get(_ context.Context, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, services.ErrReservationNotFound
	}
	r = m.withRelations(r)
	return &r, nil
}

func (m *MemoryStore) Create(_ context.Context, res *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[res.RoomID]
	if !ok {
		return services.ErrRoomNotFound
	}
	existing := m.sorted(func(r models.Reservation) bool { return r.RoomID == res.RoomID })
	conflicts, err := services.ConflictingReservations(room, res.CheckIn, res.CheckOut, existing)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		ids := make([]uint, 0, len(conflicts))
		for _, c := range conflicts {
			ids = append(ids, c.ID)
		}
		return &services.ConflictError{RoomID: res.RoomID, ConflictingIDs: ids}
	}
	code, err := utils.GenerateReferenceCode()
	if err != nil {
		return err
	}
	m.nextID++
	res.ID = m.nextID
	res.ReferenceCode = code
	res.CreatedAt = m.now()
	res.UpdatedAt = res.CreatedAt
	m.reservations[res.ID] = *res
	return nil
}

func (m *MemoryStore) ApplyStatusChange(_ context.Context, res *models.Reservation, previous models.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reservations[res.ID]
	if !ok {
		return services.ErrReservationNotFound
	}
	if stored.Status != previous {
		return services.ErrStaleReservation
	}
	stored.Status = res.Status
	stored.PaymentReceived = res.PaymentReceived
	stored.ConfirmationTime = res.ConfirmationTime
	stored.AuditedBy = res.AuditedBy
	stored.UpdatedAt = m.now()
	m.reservations[res.ID] = stored
	return nil
}

func (m *MemoryStore) ListPendingCreatedBefore(_ context.Context, cutoff time.Time) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r models.Reservation) bool {
		return r.Status == models.StatusPending && !r.PaymentReceived && !r.CreatedAt.After(cutoff)
	}), nil
}

func (m *MemoryStore) CustomerExists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.customers[id]
	return ok, nil
}

func copyNames(in map[uint]string) map[uint]string {
	out := make(map[uint]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *MemoryStore) LoadDirectory(context.Context) (services.Directory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make(map[uint]string, len(m.rooms))
	for id, r := range m.rooms {
		rooms[id] = r.Name
	}
	return services.Directory{
		Customers: copyNames(m.customers),
		Rooms:     rooms,
		Staff:     copyNames(m.staff),
	}, nil
}

// Rooms exposes the room side as a services.RoomStore.
func (m *MemoryStore) Rooms() services.RoomStore { return roomView{m} }

type roomView struct{ m *MemoryStore }

func (v roomView) Get(_ context.Context, id uint) (*models.Room, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	r, ok := v.m.rooms[id]
	if !ok {
		return nil, services.ErrRoomNotFound
	}
	return &r, nil
}

func (v roomView) List(context.Context) ([]models.Room, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	out := make([]models.Room, 0, len(v.m.rooms))
	for _, r := range v.m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountingCache is a services.StatsCache that records traffic. Keys carry a
// generation bumped by Invalidate, like the Redis cache.
type CountingCache struct {
	mu            sync.Mutex
	gen           int
	entries       map[string]services.Statistics
	Hits          int
	Sets          int
	Invalidations int
}

func NewCountingCache() *CountingCache {
	return &CountingCache{entries: map[string]services.Statistics{}}
}

func (c *CountingCache) Key(_ context.Context, from, to time.Time) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d:%s:%s", c.gen, utils.FormatDate(from), utils.FormatDate(to)), nil
}

func (c *CountingCache) Get(_ context.Context, key string) (*services.Statistics, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	c.Hits++
	return &st, true, nil
}

func (c *CountingCache) Set(_ context.Context, key string, st services.Statistics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	c.entries[key] = st
	return nil
}

func (c *CountingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	c.gen++
	c.entries = map[string]services.Statistics{}
	return nil
}
