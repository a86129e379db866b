package seq

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listings-gateway/internal/redisx"
)

func TestMemoryConcurrentUnique(t *testing.T) {
	m := NewMemory()
	const n = 200
	got := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := m.Next(context.Background())
			assert.NoError(t, err)
			got <- v
		}()
	}
	wg.Wait()
	close(got)

	seen := map[int64]bool{}
	for v := range got {
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
	next, _ := m.Next(context.Background())
	assert.Equal(t, int64(n+1), next)
}

func TestRedisIncrements(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := redisx.New(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))

	key := "test:fetch-seq:" + t.Name()
	t.Cleanup(func() { c.Rdb.Del(context.Background(), key) })
	r := NewRedis(c, key)
	a, err := r.Next(ctx)
	require.NoError(t, err)
	b, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, a+1, b)
}
