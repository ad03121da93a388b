package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/metrics"
)

const defaultWriteTimeout = 5 * time.Second

// Writer persists cart snapshots from one background goroutine. Snapshots
// scheduled while a write is in flight replace each other, so only the latest
// state is written next.
type Writer struct {
	storage Storage
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	mu      sync.Mutex
	pending []LineItem
	dirty   bool

	wake     chan struct{}
	flushReq chan chan struct{}
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWriter starts the writer goroutine. Close must be called to stop it.
func NewWriter(storage Storage, timeout time.Duration, logg *logger.Logger, m *metrics.CartMetrics) *Writer {
	if logg == nil {
		logg = logger.Nop()
	}
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &Writer{
		storage:  storage,
		timeout:  timeout,
		logg:     logg,
		metrics:  m,
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Schedule queues items as the next state to persist. The slice must not be
// modified afterwards. It reports false, and logs the lost snapshot, once the
// writer has stopped.
func (w *Writer) Schedule(items []LineItem) bool {
	select {
	case <-w.done:
		ctx := w.logg.WithField(context.Background(), "items", len(items))
		w.logg.Warn(ctx, "cart writer closed; snapshot not persisted")
		return false
	default:
	}

	w.mu.Lock()
	w.pending = items
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

// Flush blocks until every snapshot scheduled before the call has been written
// or ctx ends.
func (w *Writer) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushReq <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the goroutine.
func (w *Writer) Close(ctx context.Context) error {
	w.once.Do(func() { close(w.stop) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case ack := <-w.flushReq:
			w.drain()
			close(ack)
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		items, ok := w.take()
		if !ok {
			return
		}
		w.write(items)
	}
}

func (w *Writer) take() ([]LineItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return nil, false
	}
	items := w.pending
	w.pending = nil
	w.dirty = false
	return items, true
}

func (w *Writer) write(items []LineItem) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	ctx = w.logg.WithField(ctx, "items", len(items))

	payload, err := encodeItems(items)
	if err != nil {
		w.logg.Error(ctx, "failed to encode cart snapshot", err)
		w.metrics.ObserveWrite(err, 0)
		return
	}

	start := time.Now()
	err = w.storage.Save(ctx, payload)
	w.metrics.ObserveWrite(err, time.Since(start))
	if err != nil {
		w.logg.Error(ctx, "failed to persist cart", err)
		return
	}
	w.logg.Debug(ctx, "cart persisted")
}
