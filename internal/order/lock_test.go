package order

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseLocker(t *testing.T, l Locker) {
	t.Helper()
	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "checkout:u-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen)
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	exerciseLocker(t, l)
	assert.Empty(t, l.locks)

	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	// Other keys are independent.
	other, err := l.Lock(context.Background(), "b")
	require.NoError(t, err)
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Empty(t, l.locks)
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLocker(rdb, 2*time.Second), mr
}

func TestRedisLocker(t *testing.T) {
	l, mr := newRedisLocker(t)
	exerciseLocker(t, l)
	assert.False(t, mr.Exists("storefront:lock:checkout:u-1"))
}

func TestRedisLockerTimesOut(t *testing.T) {
	l, _ := newRedisLocker(t)
	l.wait = 50 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestRedisLockerKeepsForeignLease(t *testing.T) {
	l, mr := newRedisLocker(t)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	// The lease expired and another holder took it over.
	require.NoError(t, mr.Set("storefront:lock:k", "someone-else"))

	unlock()
	got, err := mr.Get("storefront:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
