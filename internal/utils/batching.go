package utils

import (
	"log/slog"
	"sync"
)

// BatchBuffer accumulates items until the caller drains a batch. Safe for
// concurrent producers.
type BatchBuffer[T any] struct {
	buffer     []T
	capacity   int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (b *BatchBuffer[T]) Add(item T) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
}

// Full reports whether the buffer reached its configured batch size.
func (b *BatchBuffer[T]) Full() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) >= b.capacity
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	return b.Size() > 0
}

// GetAndClear drains the current batch, leaving an empty buffer behind.
func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

func (b *BatchBuffer[T]) LogBatchProcessing(batchType string) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	slog.Info("[BatchBuffer] Processing batch",
		slog.String("type", batchType),
		slog.Int("batch_size", len(b.buffer)))
}
