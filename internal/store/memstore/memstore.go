// Package memstore implements the store interfaces in memory. It backs the
// service tests and local runs without a database.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

var (
	_ store.Relationships = (*Relationships)(nil)
	_ store.Notifications = (*Notifications)(nil)
	_ store.Users         = (*Users)(nil)
	_ store.Gifts         = (*Gifts)(nil)
)

type pairKey struct {
	low, high uuid.UUID
}

func newPairKey(a, b uuid.UUID) pairKey {
	if lessUUID(b, a) {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type storedNotification struct {
	models.Notification
	seq uint64
}

// Store holds every table behind one lock so multi-table reads (joins,
// exclusion filters) see a consistent snapshot.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]models.User
	relationships map[uuid.UUID]models.Relationship
	pairs         map[pairKey]uuid.UUID
	notifications map[uuid.UUID]storedNotification
	gifts         map[uuid.UUID]models.Gift
	bookings      map[uuid.UUID]models.Booking
	seq           uint64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:         make(map[uuid.UUID]models.User),
		relationships: make(map[uuid.UUID]models.Relationship),
		pairs:         make(map[pairKey]uuid.UUID),
		notifications: make(map[uuid.UUID]storedNotification),
		gifts:         make(map[uuid.UUID]models.Gift),
		bookings:      make(map[uuid.UUID]models.Booking),
		now:           time.Now,
	}
}

// SetClock replaces the time source used for created_at values.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) Relationships() *Relationships { return &Relationships{s: s} }
func (s *Store) Notifications() *Notifications { return &Notifications{s: s} }
func (s *Store) Users() *Users                 { return &Users{s: s} }
func (s *Store) Gifts() *Gifts                 { return &Gifts{s: s} }

// PutUser inserts or replaces a user. A zero ID is assigned a fresh one.
func (s *Store) PutUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = u
	return u
}

// AddGift inserts a gift owned by an existing user.
func (s *Store) AddGift(g models.Gift) (models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[g.OwnerID]; !ok {
		return models.Gift{}, store.ErrNotFound
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	g.IsBooked = false
	g.BookedBy = nil
	s.gifts[g.ID] = g
	return g, nil
}

// RelationshipCount reports the number of stored edges.
func (s *Store) RelationshipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relationships)
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) summary(id uuid.UUID) models.UserSummary {
	u := s.users[id]
	return models.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, AvatarURL: u.AvatarURL}
}
