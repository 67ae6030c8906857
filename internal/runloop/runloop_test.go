package runloop

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostRunsInOrder(t *testing.T) {
	l := New()
	defer l.Stop()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() {
			got = append(got, i)
		})
	}
	l.Sync(func() {})

	assert.Len(t, got, 100)
	for i, v := range got {
		if v != i {
			t.Fatalf("Expected %d at position %d, got %d", i, i, v)
		}
	}
}

func TestSyncWaits(t *testing.T) {
	l := New()
	defer l.Stop()

	ran := false
	l.Sync(func() {
		ran = true
	})
	assert.True(t, ran)
}

func TestStopDrainsQueuedWork(t *testing.T) {
	l := New()

	var mu sync.Mutex
	count := 0
	for i := 0; i < 50; i++ {
		l.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	l.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 50, count)
}

func TestPostAfterStopIsDropped(t *testing.T) {
	l := New()
	l.Stop()

	l.Post(func() {
		t.Error("posted function ran after Stop")
	})
	l.Stop() // idempotent
}

func TestSyncAfterStopRunsInline(t *testing.T) {
	l := New()
	l.Stop()

	ran := false
	l.Sync(func() {
		ran = true
	})
	assert.True(t, ran)
}

func TestConcurrentPosters(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	count := 0
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Post(func() {
					count++ // serialized by the loop
				})
			}
		}()
	}
	wg.Wait()
	l.Stop()

	assert.Equal(t, 800, count)
}
