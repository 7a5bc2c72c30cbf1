package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	s.SetFitted(100, 4)
	assert.True(t, s.IsFitted())

	n, p := s.Dimensions()
	assert.Equal(t, 100, n)
	assert.Equal(t, 4, p)
}

func TestStateManagerConcurrentReads(t *testing.T) {
	s := NewStateManager()
	s.SetFitted(10, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				assert.True(t, s.IsFitted())
				n, p := s.Dimensions()
				assert.Equal(t, 10, n)
				assert.Equal(t, 2, p)
			}
		}()
	}
	wg.Wait()
}
