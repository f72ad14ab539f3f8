package utils

import (
	"sync"
	"testing"
)

func TestBatchBufferDrain(t *testing.T) {
	b := NewBatchBuffer[int](3)

	if b.HasData() {
		t.Error("new buffer reports data")
	}
	if b.GetAndClear() != nil {
		t.Error("empty drain should return nil")
	}

	b.Add(1)
	b.Add(2)
	if b.Full() {
		t.Error("buffer full at 2 of 3")
	}
	b.Add(3)
	if !b.Full() {
		t.Error("buffer not full at capacity")
	}

	batch := b.GetAndClear()
	if len(batch) != 3 || batch[0] != 1 || batch[2] != 3 {
		t.Errorf("batch = %v", batch)
	}
	if b.HasData() {
		t.Error("buffer not empty after drain")
	}
}

func TestBatchBufferConcurrentAdd(t *testing.T) {
	b := NewBatchBuffer[int](1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Add(j)
			}
		}()
	}
	wg.Wait()

	if got := b.Size(); got != 1000 {
		t.Errorf("size = %d, want 1000", got)
	}
}
