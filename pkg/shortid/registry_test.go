package shortid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsInRequestOrder(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		id, err := r.Assign()
		require.NoError(t, err)
		assert.Equal(t, WorkerID(i), id)
	}
	assert.Equal(t, uint64(5), r.Assigned())
}

func TestRegistryOverflow(t *testing.T) {
	r := NewRegistry()
	var last WorkerID
	for i := 0; i <= MaxWorkerID; i++ {
		id, err := r.Assign()
		require.NoError(t, err)
		last = id
	}
	assert.Equal(t, WorkerID(MaxWorkerID), last)

	// 65537th request and every one after it
	for i := 0; i < 3; i++ {
		_, err := r.Assign()
		assert.ErrorIs(t, err, ErrWorkerIDOverflow)
	}
	assert.Equal(t, uint64(MaxWorkerID+1), r.Assigned())
}

func TestRegistryConcurrentAssignIsDistinct(t *testing.T) {
	r := NewRegistry()
	const goroutines, perGoroutine = 32, 100

	var (
		mu   sync.Mutex
		seen = make(map[WorkerID]struct{})
		wg   sync.WaitGroup
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := r.Assign()
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
