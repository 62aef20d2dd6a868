package spinlock

import (
	"sync"
	"testing"
)

func TestMutualExclusion(t *testing.T) {
	var s Spinlock
	var counter int
	var wg sync.WaitGroup

	const goroutines = 32
	const iterations = 1000

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s.Lock()
				counter++
				s.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("counter = %d, want %d", counter, goroutines*iterations)
	}
}

func TestTryLock(t *testing.T) {
	var s Spinlock
	if !s.TryLock() {
		t.Fatal("expected TryLock to succeed on an unlocked spinlock")
	}
	if s.TryLock() {
		t.Fatal("expected TryLock to fail while already locked")
	}
	s.Unlock()
	if !s.TryLock() {
		t.Fatal("expected TryLock to succeed after Unlock")
	}
}
