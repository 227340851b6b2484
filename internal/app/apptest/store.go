// Package apptest provides in-memory implementations of the domain ports
// for tests.
package apptest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"venue_booking/internal/domain"
)

// Store keeps every repository in maps guarded by one mutex.
type Store struct {
	mu       sync.Mutex
	seq      int64
	Accounts map[int64]domain.Account
	Venues   map[int64]domain.Venue
	Items    map[int64]domain.MenuItem
	Bookings map[int64]domain.Booking
	Orders   map[int64][]domain.FoodOrderLine
	Events   map[int64]domain.Event
	Feedback []domain.Feedback

	VenueLists int
}

func NewStore() *Store {
	return &Store{
		Accounts: map[int64]domain.Account{},
		Venues:   map[int64]domain.Venue{},
		Items:    map[int64]domain.MenuItem{},
		Bookings: map[int64]domain.Booking{},
		Orders:   map[int64][]domain.FoodOrderLine{},
		Events:   map[int64]domain.Event{},
	}
}

func (m *Store) next() int64 { m.seq++; return m.seq }

func (m *Store) CreateAccount(_ context.Context, a domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.Accounts {
		if x.Role == a.Role && x.Email == a.Email {
			return domain.Account{}, domain.ErrConflict
		}
	}
	a.ID = m.next()
	m.Accounts[a.ID] = a
	return a, nil
}

func (m *Store) GetAccountByEmail(_ context.Context, role domain.Role, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.Accounts {
		if x.Role == role && x.Email == email {
			return x, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *Store) GetAccountByID(_ context.Context, role domain.Role, id int64) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[id]
	if !ok || a.Role != role {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *Store) UpdateAccount(_ context.Context, a domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[a.ID] = a
	return a, nil
}

func (m *Store) withMenu(v domain.Venue) domain.Venue {
	v.Menu = []domain.MenuItem{}
	for _, it := range m.sortedItems() {
		if it.VenueID == v.ID {
			v.Menu = append(v.Menu, it)
		}
	}
	return v
}

func (m *Store) sortedItems() []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Store) ListVenues(_ context.Context, f domain.VenueFilter) ([]domain.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VenueLists++
	var out []domain.Venue
	for _, v := range m.Venues {
		if f.OwnerID != nil && v.OwnerID != *f.OwnerID {
			continue
		}
		if f.Status != nil && v.Status != *f.Status {
			continue
		}
		out = append(out, m.withMenu(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetVenue(_ context.Context, id int64) (domain.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Venues[id]
	if !ok {
		return domain.Venue{}, domain.ErrNotFound
	}
	return m.withMenu(v), nil
}

func (m *Store) ListMenuItems(_ context.Context, venueID int64) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withMenu(domain.Venue{ID: venueID}).Menu, nil
}

func (m *Store) GetMenuItem(_ context.Context, id int64) (domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *Store) CreateVenue(_ context.Context, v domain.Venue) (domain.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.next()
	v.Menu = nil
	m.Venues[v.ID] = v
	return m.withMenu(v), nil
}

func (m *Store) UpdateVenue(_ context.Context, v domain.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.Menu = nil
	m.Venues[v.ID] = v
	return nil
}

func (m *Store) DeleteVenue(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Venues[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Venues, id)
	return nil
}

func (m *Store) SetVenueStatus(_ context.Context, id int64, s domain.VenueStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.Venues[id]
	v.Status = s
	m.Venues[id] = v
	return nil
}

func (m *Store) CreateMenuItem(_ context.Context, it domain.MenuItem) (domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.next()
	m.Items[it.ID] = it
	return it, nil
}

func (m *Store) UpdateMenuItem(_ context.Context, it domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[it.ID] = it
	return nil
}

func (m *Store) DeleteMenuItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

func (m *Store) view(b domain.Booking) domain.BookingView {
	v := m.Venues[b.VenueID]
	u := m.Accounts[b.UserID]
	lines := append([]domain.FoodOrderLine{}, m.Orders[b.ID]...)
	return domain.BookingView{
		Booking: b, VenueName: v.Name, VenueOwnerID: v.OwnerID,
		UserName: u.Name, UserEmail: u.Email, FoodOrder: lines,
	}
}

func (m *Store) CreateBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.next()
	m.Bookings[b.ID] = b
	return b, nil
}

func (m *Store) GetBooking(_ context.Context, id int64) (domain.BookingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return domain.BookingView{}, domain.ErrNotFound
	}
	return m.view(b), nil
}

func (m *Store) UpdateBooking(_ context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bookings[b.ID] = b
	return nil
}

func (m *Store) DeleteBooking(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Bookings, id)
	return nil
}

func (m *Store) SetBookingStatus(_ context.Context, id int64, s domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.Bookings[id]
	b.Status = s
	m.Bookings[id] = b
	return nil
}

func (m *Store) ListBookingsByOwner(_ context.Context, ownerID int64) ([]domain.BookingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BookingView
	for _, b := range m.Bookings {
		if m.Venues[b.VenueID].OwnerID == ownerID {
			out = append(out, m.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) AddFoodOrder(_ context.Context, bookingID int64, lines []domain.FoodOrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.Orders[bookingID]
outer:
	for _, l := range lines {
		for i := range cur {
			if cur[i].MenuItemID == l.MenuItemID {
				cur[i].Quantity += l.Quantity
				continue outer
			}
		}
		cur = append(cur, l)
	}
	m.Orders[bookingID] = cur
	return nil
}

func (m *Store) CreateEvent(_ context.Context, e domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.next()
	m.Events[e.ID] = e
	return e, nil
}

func (m *Store) GetEvent(_ context.Context, id int64) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *Store) UpdateEvent(_ context.Context, e domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[e.ID] = e
	return nil
}

func (m *Store) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Events, id)
	return nil
}

func (m *Store) ListEventsByUser(_ context.Context, userID int64) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.Events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) SaveFeedback(_ context.Context, f domain.Feedback) (domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.next()
	m.Feedback = append(m.Feedback, f)
	return f, nil
}

// Cache stores JSON like the redis adapter does.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte
	dels []string
}

func NewCache() *Cache { return &Cache{data: map[string][]byte{}} }

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
