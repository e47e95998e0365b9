package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireSerializesSameKey(t *testing.T) {
	l := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := l.Acquire("doctor-1|2025-01-06")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	l := New()

	releaseA := l.Acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := l.Acquire("b")
		releaseB()
		close(done)
	}()
	<-done
}

func TestEntriesAreReclaimed(t *testing.T) {
	l := New()

	release := l.Acquire("k")
	release()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}
