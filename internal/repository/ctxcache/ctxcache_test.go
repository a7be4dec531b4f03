package ctxcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/db"
	"github.com/moimlab/recs/internal/domain"
)

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type mockProvider struct {
	u     domain.UserContext
	err   error
	calls int
}

func (m *mockProvider) UserContext(_ context.Context, _ int64) (domain.UserContext, error) {
	m.calls++
	return m.u, m.err
}

func TestUserContext_MissThenHit(t *testing.T) {
	store := newMockStore()
	inner := &mockProvider{u: domain.UserContext{UserID: 7, AvgRating: 4.1}}
	cached := New(inner, store, time.Minute, nil, zap.NewNop())

	u, err := cached.UserContext(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.AvgRating != 4.1 || inner.calls != 1 {
		t.Fatalf("miss path wrong: %+v, calls=%d", u, inner.calls)
	}
	if store.lastTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", store.lastTTL)
	}

	u, err = cached.UserContext(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.AvgRating != 4.1 {
		t.Errorf("hit returned %+v", u)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1 (second lookup served from cache)", inner.calls)
	}
}

func TestUserContext_StoreErrorFallsThrough(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection reset")
	inner := &mockProvider{u: domain.UserContext{UserID: 7}}
	cached := New(inner, store, time.Minute, nil, zap.NewNop())

	if _, err := cached.UserContext(context.Background(), 7); err != nil {
		t.Fatalf("cache failure must not fail the lookup: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestUserContext_SetErrorIgnored(t *testing.T) {
	store := newMockStore()
	store.setErr = errors.New("readonly replica")
	inner := &mockProvider{u: domain.UserContext{UserID: 7}}
	cached := New(inner, store, time.Minute, nil, zap.NewNop())

	if _, err := cached.UserContext(context.Background(), 7); err != nil {
		t.Fatalf("write-through failure must not fail the lookup: %v", err)
	}
}

func TestUserContext_InnerErrorNotCached(t *testing.T) {
	store := newMockStore()
	inner := &mockProvider{err: domain.ErrUserNotFound}
	cached := New(inner, store, time.Minute, nil, zap.NewNop())

	if _, err := cached.UserContext(context.Background(), 7); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
	if len(store.data) != 0 {
		t.Error("failed lookup must not populate the cache")
	}
}

func TestUserContext_CorruptEntryIsMiss(t *testing.T) {
	store := newMockStore()
	store.data[cacheKeyPrefix+"7"] = []byte("{not json")
	inner := &mockProvider{u: domain.UserContext{UserID: 7, MeetingCount: 3}}
	cached := New(inner, store, time.Minute, nil, zap.NewNop())

	u, err := cached.UserContext(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.MeetingCount != 3 || inner.calls != 1 {
		t.Errorf("corrupt entry must fall through to inner, got %+v calls=%d", u, inner.calls)
	}
	// The bad entry is replaced by the fresh one.
	var stored domain.UserContext
	if err := json.Unmarshal(store.data[cacheKeyPrefix+"7"], &stored); err != nil {
		t.Fatalf("cache not repaired: %v", err)
	}
	if stored.MeetingCount != 3 {
		t.Errorf("stored = %+v", stored)
	}
}
