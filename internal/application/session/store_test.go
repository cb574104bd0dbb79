package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(ttl)
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestStore_PendingRoundTrip(t *testing.T) {
	s, _ := newTestStore(30 * time.Minute)

	_, ok := s.Pending("sess-1")
	assert.False(t, ok)

	s.AwaitLocation("sess-1", PendingInbound{ProductID: 3, ProductName: "무선 마우스", Quantity: 10})

	got, ok := s.Pending("sess-1")
	require.True(t, ok)
	assert.Equal(t, 3, got.ProductID)
	assert.Equal(t, "무선 마우스", got.ProductName)
	assert.Equal(t, 10, got.Quantity)

	// Other sessions never see it.
	_, ok = s.Pending("sess-2")
	assert.False(t, ok)

	s.Clear("sess-1")
	_, ok = s.Pending("sess-1")
	assert.False(t, ok)
}

func TestStore_ExpiryOnAccess(t *testing.T) {
	s, clock := newTestStore(30 * time.Minute)

	s.AwaitLocation("sess-1", PendingInbound{ProductID: 1, Quantity: 5})

	*clock = clock.Add(29 * time.Minute)
	_, ok := s.Pending("sess-1")
	assert.True(t, ok)

	*clock = clock.Add(2 * time.Minute)
	_, ok = s.Pending("sess-1")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SweepDropsOnlyExpired(t *testing.T) {
	s, clock := newTestStore(30 * time.Minute)

	s.AwaitLocation("old", PendingInbound{ProductID: 1, Quantity: 1})
	*clock = clock.Add(31 * time.Minute)
	s.AwaitLocation("fresh", PendingInbound{ProductID: 2, Quantity: 2})

	removed := s.Sweep()
	assert.Equal(t, 1, removed)

	_, ok := s.Pending("old")
	assert.False(t, ok)
	_, ok = s.Pending("fresh")
	assert.True(t, ok)
}

func TestStore_OverwriteReplacesPending(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	s.AwaitLocation("sess", PendingInbound{ProductID: 1, Quantity: 5})
	s.AwaitLocation("sess", PendingInbound{ProductID: 2, Quantity: 7})

	got, ok := s.Pending("sess")
	require.True(t, ok)
	assert.Equal(t, 2, got.ProductID)
	assert.Equal(t, 7, got.Quantity)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%4))
			for j := 0; j < 200; j++ {
				s.AwaitLocation(id, PendingInbound{ProductID: n, Quantity: j})
				s.Pending(id)
				if j%50 == 0 {
					s.Sweep()
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 4)
}
