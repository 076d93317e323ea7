package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aurashop/marketplace-backend/internal/tracking/domain"
)

// SessionWriter folds events into the per-session Firestore document.
type SessionWriter interface {
	Init(ctx context.Context, uid string, init domain.SessionInit) error
	ApplyEvent(ctx context.Context, ev domain.Event) error
}

// ActivityLog mirrors events into the Postgres timeseries.
type ActivityLog interface {
	InsertBatch(ctx context.Context, rows []domain.ActivityRow) error
}

const (
	defaultFlushSize     = 50
	defaultFlushInterval = 5 * time.Second
	defaultBufferSize    = 256
)

// Collector is the behavior pipeline's single entry point: consumers publish
// events to it, never to the stores directly. Session updates apply
// immediately; the timeseries mirror flushes in batches.
type Collector struct {
	sessions SessionWriter
	activity ActivityLog

	events    chan domain.Event
	flushSize int
	interval  time.Duration

	wg      sync.WaitGroup
	stop    chan struct{}
	stopped sync.Once
}

// Option tunes the collector.
type Option func(*Collector)

// WithFlushSize overrides the timeseries batch size.
func WithFlushSize(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.flushSize = n
		}
	}
}

// WithFlushInterval overrides how long a partial batch may sit.
func WithFlushInterval(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewCollector builds and starts the collector's background loop.
func NewCollector(sessions SessionWriter, activity ActivityLog, opts ...Option) *Collector {
	c := &Collector{
		sessions:  sessions,
		activity:  activity,
		events:    make(chan domain.Event, defaultBufferSize),
		flushSize: defaultFlushSize,
		interval:  defaultFlushInterval,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// InitSession merge-creates the session document. Synchronous: the caller
// cares whether the session exists before publishing into it.
func (c *Collector) InitSession(ctx context.Context, uid string, init domain.SessionInit) error {
	return c.sessions.Init(ctx, uid, init)
}

// Publish hands one event to the pipeline. It never blocks the caller: when
// the buffer is full the event is counted and dropped, since behavior data
// is best-effort by nature.
func (c *Collector) Publish(ev domain.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case c.events <- ev:
	default:
		log.Printf("[tracking] buffer full, dropping event kind=%s session=%s", ev.Kind, ev.SessionID)
	}
}

// Close drains the buffer, flushes the final batch, and stops the loop.
func (c *Collector) Close() {
	c.stopped.Do(func() { close(c.stop) })
	c.wg.Wait()
}

func (c *Collector) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	batch := make([]domain.ActivityRow, 0, c.flushSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := c.activity.InsertBatch(ctx, batch); err != nil {
			log.Printf("[tracking] timeseries flush failed rows=%d err=%v", len(batch), err)
		}
		cancel()
		batch = batch[:0]
	}

	handle := func(ev domain.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.sessions.ApplyEvent(ctx, ev); err != nil {
			log.Printf("[tracking] session update failed kind=%s session=%s err=%v", ev.Kind, ev.SessionID, err)
		}
		cancel()
		batch = append(batch, ev.Row())
		if len(batch) >= c.flushSize {
			flush()
		}
	}

	for {
		select {
		case ev := <-c.events:
			handle(ev)
		case <-ticker.C:
			flush()
		case <-c.stop:
			for {
				select {
				case ev := <-c.events:
					handle(ev)
				default:
					flush()
					return
				}
			}
		}
	}
}
