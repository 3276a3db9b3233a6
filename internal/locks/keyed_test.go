package locks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_SameKeySameMutex(t *testing.T) {
	k := NewKeyed()
	assert.Same(t, k.Get("room:1"), k.Get("room:1"))
	assert.NotSame(t, k.Get("room:1"), k.Get("room:2"))
}

func TestGet_Concurrent(t *testing.T) {
	k := NewKeyed()

	const n = 32
	var wg sync.WaitGroup
	got := make([]*sync.Mutex, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = k.Get("room:1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
}
