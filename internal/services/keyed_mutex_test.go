package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	service "github.com/heartcraft/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {

	t.Run("TryLock fails while held and succeeds after release", func(t *testing.T) {
		locks := service.NewKeyedMutex()
		key := uuid.New()

		unlock, ok := locks.TryLock(key)
		require.True(t, ok)
		assert.True(t, locks.Held(key))

		_, ok = locks.TryLock(key)
		assert.False(t, ok)

		unlock()
		assert.False(t, locks.Held(key))

		unlock, ok = locks.TryLock(key)
		require.True(t, ok)
		unlock()
	})

	t.Run("Different keys do not contend", func(t *testing.T) {
		locks := service.NewKeyedMutex()

		unlockA := locks.Lock(uuid.New())
		defer unlockA()

		_, ok := locks.TryLock(uuid.New())
		assert.True(t, ok)
	})

	t.Run("Lock serialises work for one key", func(t *testing.T) {
		locks := service.NewKeyedMutex()
		key := uuid.New()

		var (
			mu      sync.Mutex
			active  int
			maxSeen int
			wg      sync.WaitGroup
		)

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.Lock(key)
				defer unlock()

				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
			}()
		}

		wg.Wait()
		assert.Equal(t, 1, maxSeen)
		assert.False(t, locks.Held(key))
	})
}
