package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"nogus/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// AnalysisQueue is an in-memory queue of analysis batches awaiting valuation
type AnalysisQueue struct {
	items    chan []*models.AnalysisRequest
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	workers  sync.WaitGroup
	logger   *logrus.Logger
	handlers []func([]*models.AnalysisRequest) error
}

// NewAnalysisQueue creates a queue buffering up to bufferSize batches
func NewAnalysisQueue(bufferSize int, logger *logrus.Logger) *AnalysisQueue {
	return &AnalysisQueue{
		items:    make(chan []*models.AnalysisRequest, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.AnalysisRequest) error, 0),
	}
}

// Push enqueues a batch without blocking. The read lock is held across the
// send so Close cannot close the channel underneath it.
func (q *AnalysisQueue) Push(requests []*models.AnalysisRequest) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- requests:
		q.logger.WithField("batch_size", len(requests)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for every batch
func (q *AnalysisQueue) Subscribe(handler func([]*models.AnalysisRequest) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches a consumer. Each call adds one more consumer reading from
// the same buffer.
func (q *AnalysisQueue) Start() {
	q.workers.Add(1)
	go q.process()
}

// process hands batches to the handlers until the queue is closed and its
// buffer drained
func (q *AnalysisQueue) process() {
	defer q.workers.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *AnalysisQueue) processBatch(batch []*models.AnalysisRequest) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close rejects further pushes. Batches already buffered are still handed
// to the handlers; use Wait to block until they have been.
func (q *AnalysisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	return nil
}

// Wait blocks until every consumer has exited, which happens once the queue
// is closed and drained
func (q *AnalysisQueue) Wait() {
	q.workers.Wait()
}

// Len returns the number of batches waiting
func (q *AnalysisQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *AnalysisQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
