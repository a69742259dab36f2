package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher routes address events to a fixed set of workers using consistent
// hashing on the client id, guaranteeing per-client event ordering. Workers hand
// each event to sink.
type Dispatcher struct {
	workers []chan domain.AddressChangedEvent
	sink    ports.AddressEventPublisher
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AddressEventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AddressChangedEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AddressChangedEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to the sink; workers
// exit once Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues evt on the worker responsible for its client. It blocks
// while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Publish(ctx context.Context, evt domain.AddressChangedEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(evt.ClientID)
	select {
	case d.workers[idx] <- evt:
		metrics.AddressEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits until every queued event was handed
// to the sink.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AddressChangedEvent) {
	defer d.wg.Done()
	depth := metrics.AddressEventsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for evt := range ch {
		depth.Dec()
		if err := d.sink.Publish(context.WithoutCancel(ctx), evt); err != nil {
			metrics.AddressEventsTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("client_id", evt.ClientID).
				Str("correlation_id", evt.CorrelationID).
				Int("worker_id", id).
				Msg("address event delivery failed")
			continue
		}
		metrics.AddressEventsTotal.WithLabelValues("published").Inc()
	}
}
