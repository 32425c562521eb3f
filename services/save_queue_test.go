package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveQueueSerializesPerKey(t *testing.T) {
	q := NewSaveQueue()

	const workers = 16
	var inFlight, maxInFlight int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Run(7, func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					max := atomic.LoadInt32(&maxInFlight)
					if n <= max || atomic.CompareAndSwapInt32(&maxInFlight, max, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestSaveQueueIndependentKeysDoNotBlockEachOther(t *testing.T) {
	q := NewSaveQueue()

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = q.Run(1, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	go func() {
		_ = q.Run(2, func() error { return nil })
		close(done)
	}()

	// a save under key 2 finishes while key 1 is still held
	<-done
	close(release)
}

func TestSaveQueuePropagatesError(t *testing.T) {
	q := NewSaveQueue()
	err := q.Run(7, func() error { return assert.AnError })
	require.ErrorIs(t, err, assert.AnError)
}
