package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel/internal/domains/booking/model"
	"hotel/shared/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedCache is an in-memory cache whose saves under the held prefix wait until release is closed.
type gatedCache struct {
	mu     sync.Mutex
	values map[string][]byte

	held    string
	release chan struct{}
	saved   chan string
}

func newGatedCache(held string) *gatedCache {
	return &gatedCache{
		values:  make(map[string][]byte),
		held:    held,
		release: make(chan struct{}),
		saved:   make(chan string, 16),
	}
}

func (c *gatedCache) Save(_ context.Context, key string, value any, _ int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	gated := strings.HasPrefix(key, c.held)
	if gated {
		<-c.release
	}

	c.mu.Lock()
	c.values[key] = raw
	c.mu.Unlock()

	if gated {
		c.saved <- key
	}

	return nil
}

func (c *gatedCache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	raw, ok := c.values[key]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", cache.Nil)
	}

	return json.Unmarshal(raw, value)
}

func (c *gatedCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)

	return nil
}

func (c *gatedCache) Clear(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}

	return nil
}

func (c *gatedCache) Incr(_ context.Context, key string, _ int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	if raw, ok := c.values[key]; ok {
		if err := json.Unmarshal(raw, &count); err != nil {
			return 0, err
		}
	}

	count++

	raw, err := json.Marshal(count)
	if err != nil {
		return 0, err
	}

	c.values[key] = raw

	return count, nil
}

// flush lets the held saves through and waits until one has landed.
func (c *gatedCache) flush(t *testing.T) {
	t.Helper()

	close(c.release)

	select {
	case <-c.saved:
	case <-time.After(time.Second):
		t.Fatal("held cache save never completed")
	}
}

func TestBookingService_GetAfterCancelIgnoresLateCacheFill(t *testing.T) {
	s := newBookingSuite(t)
	ctx := context.Background()

	redis := newGatedCache("booking:get")
	s.redis = redis
	s.rebuild()

	id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

	res, err := s.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), res.Status)

	_, err = s.svc.Cancel(ctx, id)
	require.NoError(t, err)

	// the fill started before the cancel lands only now
	redis.flush(t)

	res, err = s.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), res.Status)
}

func TestBookingService_GetServesCachedBooking(t *testing.T) {
	s := newBookingSuite(t)
	ctx := context.Background()

	redis := newGatedCache("booking:get")
	close(redis.release)
	s.redis = redis
	s.rebuild()

	id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

	_, err := s.svc.Get(ctx, id)
	require.NoError(t, err)

	select {
	case <-redis.saved:
	case <-time.After(time.Second):
		t.Fatal("booking was never cached")
	}

	// a store change behind the service's back is invisible while the entry lives
	applied, err := s.store.UpdateFields(ctx, id, model.StatusConfirmed, map[string]any{model.FieldGuestName: "Rui Costa"})
	require.NoError(t, err)
	require.True(t, applied)

	res, err := s.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", res.GuestName)
}

func TestBookingService_RoomAvailabilityAfterAdmitIgnoresLateCacheFill(t *testing.T) {
	s := newBookingSuite(t)
	ctx := context.Background()

	redis := newGatedCache("booking:availability")
	s.redis = redis
	s.rebuild()

	res, err := s.svc.RoomAvailability(ctx, roomID, "2024-06-01", "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, res.UnavailableDates)

	s.admit(t, roomID, "2024-06-02", "2024-06-04")

	redis.flush(t)

	res, err = s.svc.RoomAvailability(ctx, roomID, "2024-06-01", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-02", "2024-06-03"}, res.UnavailableDates)
	assert.Equal(t, 2, res.TotalUnavailableDays)
}
