// Package queue moves audit entries off the request path. Entries for the
// same entity always land on the same worker, so their order is preserved.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/posts-api/internal/api/metrics"
	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher routes audit entries to a fixed set of workers using consistent
// hashing on the entity key ("user:42").
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop is called;
// ctx only bounds each individual insert.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands entry to the worker responsible for its entity. It never
// blocks: when that worker's queue is full the entry is dropped and counted.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	idx := d.shardIndex(entry.Key())
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx))
	// counted before the send so a worker can never see the gauge below zero
	depth.Inc()
	select {
	case d.workers[idx] <- entry:
	default:
		depth.Dec()
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().Str("key", entry.Key()).Int("worker_id", idx).Msg("audit queue full, entry dropped")
	}
}

// Stop refuses new entries, lets the workers drain what is already queued
// and waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for entry := range ch {
		depth.Dec()
		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
		if err := d.repo.InsertEntry(insertCtx, entry); err != nil {
			d.log.Error().Err(err).
				Str("key", entry.Key()).
				Str("action", string(entry.Action)).
				Int("worker_id", id).
				Msg("audit insert failed")
		}
		cancel()
	}
}
