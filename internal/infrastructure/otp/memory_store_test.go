package otp_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/otp"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newStore(maxAttempts int) (*otp.MemoryStore, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return otp.NewMemoryStore(maxAttempts).WithClock(c.now), c
}

func TestMemoryStore_ConsumeUnaSolaVez(t *testing.T) {
	s, _ := newStore(5)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 10*time.Minute))

	res, err := s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, auth.ConsumeValid, res)

	res, err = s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, auth.ConsumeMissing, res)
}

func TestMemoryStore_PutReemplaza(t *testing.T) {
	s, _ := newStore(5)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "111111", time.Minute))
	require.NoError(t, s.Put(ctx, "a@x.com", "222222", time.Minute))

	res, _ := s.Consume(ctx, "a@x.com", "111111")
	assert.Equal(t, auth.ConsumeMismatch, res)
	res, _ = s.Consume(ctx, "a@x.com", "222222")
	assert.Equal(t, auth.ConsumeValid, res)
}

func TestMemoryStore_Vencido(t *testing.T) {
	s, c := newStore(5)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 10*time.Minute))

	c.advance(10 * time.Minute)
	res, err := s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, auth.ConsumeExpired, res)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_LimiteDeIntentos(t *testing.T) {
	s, _ := newStore(3)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "123456", time.Minute))

	for i := 0; i < 3; i++ {
		res, err := s.Consume(ctx, "a@x.com", "000000")
		require.NoError(t, err)
		assert.Equal(t, auth.ConsumeMismatch, res)
	}
	res, _ := s.Consume(ctx, "a@x.com", "123456")
	assert.Equal(t, auth.ConsumeMissing, res, "agotados los intentos la entrada se purga")
}

func TestMemoryStore_ConsumeConcurrente(t *testing.T) {
	s, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "123456", time.Minute))

	var valid atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, _ := s.Consume(ctx, "a@x.com", "123456"); res == auth.ConsumeValid {
				valid.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), valid.Load())
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	s, c := newStore(5)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a@x.com", "1", time.Minute))
	require.NoError(t, s.Put(ctx, "b@x.com", "2", time.Hour))

	c.advance(2 * time.Minute)
	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, s.Len())
}

func TestRunJanitor(t *testing.T) {
	s, c := newStore(5)
	require.NoError(t, s.Put(context.Background(), "a@x.com", "1", time.Minute))
	c.advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	purged := make(chan int, 10)
	done := make(chan struct{})
	go func() {
		otp.RunJanitor(ctx, s, 5*time.Millisecond, func(n int, err error) {
			if err == nil && n > 0 {
				purged <- n
			}
		})
		close(done)
	}()

	select {
	case n := <-purged:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("el janitor no purgó")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("el janitor no se detuvo")
	}
}
