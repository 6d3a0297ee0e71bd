package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
	"github.com/TrueSergey/websitewishlist/internal/store/memstore"
)

type testEnv struct {
	store         *memstore.Store
	notifications *NotificationService
	friends       *FriendService
	gifts         *GiftService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memstore.New()
	notifications := NewNotificationService(st.Notifications(), nil)
	friends := NewFriendService(st.Relationships(), st.Users(), notifications)
	return &testEnv{
		store:         st,
		notifications: notifications,
		friends:       friends,
		gifts:         NewGiftService(st.Gifts(), friends, notifications),
	}
}

func (e *testEnv) user(username string) *models.Caller {
	u := e.store.PutUser(models.User{Username: username, Email: username + "@example.com"})
	return models.CallerFromUser(&u)
}

func (e *testEnv) befriend(t *testing.T, a, b *models.Caller) {
	t.Helper()
	ctx := context.Background()
	rel, err := e.friends.SendRequest(ctx, a, b.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := e.friends.RespondToRequest(ctx, b, rel.ID, true); err != nil {
		t.Fatalf("accept request: %v", err)
	}
}

type fakeEmitter struct {
	emitted []Emission
	err     error
}

func (f *fakeEmitter) Emit(ctx context.Context, e Emission) (*models.Notification, error) {
	f.emitted = append(f.emitted, e)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Notification{RecipientID: e.RecipientID, Type: e.Type}, nil
}

type fakeRedis struct {
	values   map[string]string
	ttls     map[string]time.Duration
	getErr   error
	setErr   error
	delErr   error
	incrErr  error
	getCalls int
	setCalls int
	delCalls int
	lastTTL  time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.getCalls++
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.setCalls++
	f.lastTTL = expiration
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case int:
		f.values[key] = strconv.Itoa(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.delCalls += len(keys)
	if f.delErr != nil {
		return f.delErr
	}
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if _, ok := f.values[key]; ok {
		f.ttls[key] = expiration
	}
	return nil
}

// failingRelationships returns err from every write while delegating reads.
type failingRelationships struct {
	store.Relationships
	err error
}

func (f failingRelationships) Create(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Relationship, error) {
	return nil, f.err
}

type fakeObjectStorage struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
	baseURL string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{saved: make(map[string][]byte), baseURL: "https://cdn.example.com/"}
}

func (f *fakeObjectStorage) Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.saved[key] = data
	return f.baseURL + key, nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.saved, key)
	return nil
}

var errBoom = errors.New("boom")
