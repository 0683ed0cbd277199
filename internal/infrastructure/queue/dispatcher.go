package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/api/metrics"
	"github.com/bookinghub/user-service/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditProcessor handles a single audit event (see service.AuditService).
type AuditProcessor interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the username, guaranteeing per-user event ordering. It keeps
// audit writes off the request path.
type Dispatcher struct {
	workers   []chan domain.AuditEvent
	processor AuditProcessor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor AuditProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.AuditEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker responsible for its username.
// Events are dropped with a warning when the worker channel is full; the
// audit trail is best-effort and must never block a login.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("username", event.Username).Str("action", event.Action).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("username", event.Username).
					Int("worker_id", id).
					Msg("audit event processing failed")
				continue
			}
			metrics.AuditEventsTotal.WithLabelValues(event.Action).Inc()
		}
	}
}
