package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/config"
)

func TestNewRedisDisabled(t *testing.T) {
	rdb, err := NewRedis(context.Background(), &config.Config{})
	require.NoError(t, err)
	require.Nil(t, rdb)

	_, ok := NewLocker(nil).(*LocalLocker)
	require.True(t, ok)
}

func TestLocalLockerSerialises(t *testing.T) {
	l := NewLocalLocker()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Obtain(context.Background(), "invoice:1", time.Second)
			require.NoError(t, err)

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxSeen)
}

func TestLocalLockerCancelled(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Obtain(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Obtain(ctx, "k", time.Second)
	require.ErrorIs(t, err, context.Canceled)

	release()
	release()
	_, err = l.Obtain(context.Background(), "k", time.Second)
	require.NoError(t, err)
}
