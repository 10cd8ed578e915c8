package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/api/metrics"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	storeTimeout   = 5 * time.Second
)

// Dispatcher stores notifications off the request path. Items are sharded by
// recipient so one user's notifications are written in the order generated.
type Dispatcher struct {
	workers []chan ports.NotificationInput
	service ports.NotificationService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when Stop closes their
// channel or ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker responsible for its recipient.
// It never blocks: when the worker is saturated, or the dispatcher is
// stopped, the notification is dropped and counted.
func (d *Dispatcher) Enqueue(in ports.NotificationInput) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(in, "stopped")
		return
	}

	idx := d.shardIndex(in.To)
	select {
	case d.workers[idx] <- in:
		metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(in, "queue_full")
	}
}

// Stop closes the worker channels and waits for queued notifications to be
// stored, or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(in ports.NotificationInput, reason string) {
	metrics.NotificationsTotal.WithLabelValues(string(in.Type), "dropped").Inc()
	d.log.Warn().
		Str("from", in.From).
		Str("to", in.To).
		Str("type", string(in.Type)).
		Str("reason", reason).
		Msg("notification dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.store(ctx, id, in)
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, worker int, in ports.NotificationInput) {
	start := time.Now()
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	err := d.service.Create(storeCtx, in)
	metrics.NotificationDuration.WithLabelValues(string(in.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(in.Type), "failed").Inc()
		d.log.Error().Err(err).
			Str("from", in.From).
			Str("to", in.To).
			Int("worker_id", worker).
			Msg("notification store failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(string(in.Type), "stored").Inc()
}
