package admission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
)

type memoryWindow struct {
	expiresAt time.Time
	count     int64
}

// MemoryStore keeps counters in process memory. A number of tracked
// callers is bounded: least recently seen caller is forgotten and
// starts from a fresh window.
type MemoryStore struct {
	windows *simplelru.LRU
	mutex   sync.Mutex
}

func (m *MemoryStore) Incr(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if value, ok := m.windows.Get(key); ok {
		win := value.(*memoryWindow)

		if now.Before(win.expiresAt) {
			win.count++

			return win.count, nil
		}
	}

	m.windows.Add(key, &memoryWindow{
		expiresAt: now.Add(window),
		count:     1,
	})

	return 1, nil
}

// Len returns a number of tracked callers.
func (m *MemoryStore) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.windows.Len()
}

// Sweep removes expired windows.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0

	for _, key := range m.windows.Keys() {
		value, ok := m.windows.Peek(key)
		if !ok {
			continue
		}

		if !now.Before(value.(*memoryWindow).expiresAt) {
			m.windows.Remove(key)
			removed++
		}
	}

	return removed
}

// Run sweeps expired windows every interval until context is closed.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

func NewMemoryStore(maxClients int) (*MemoryStore, error) {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}

	windows, err := simplelru.NewLRU(maxClients, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create lru: %w", err)
	}

	return &MemoryStore{
		windows: windows,
	}, nil
}
