package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher asynchronously forwards notices to a sink. A nil Dispatcher is
// valid and silently discards everything, so callers never need to guard
// emit sites.
type Dispatcher struct {
	cfg       Config
	sink      Sink
	ch        chan Notice
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Notice, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case notice := <-d.ch:
			d.sink.Emit(context.Background(), notice)
		case <-d.done:
			for {
				select {
				case notice := <-d.ch:
					d.sink.Emit(context.Background(), notice)
				default:
					return
				}
			}
		}
	}
}

// Emit queues a notice for delivery. When DropIfFull is set, a full buffer
// increments the dropped counter instead of blocking the caller.
func (d *Dispatcher) Emit(ctx context.Context, notice Notice) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if notice.Timestamp.IsZero() {
		notice.Timestamp = time.Now()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- notice:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- notice:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Post is the convenience form used throughout the module.
func (d *Dispatcher) Post(ctx context.Context, level Level, source, message string, err error) {
	if d == nil {
		return
	}
	notice := Notice{
		Level:   level,
		Source:  source,
		Message: message,
	}
	if err != nil {
		notice.Err = err.Error()
	}
	d.Emit(ctx, notice)
}

func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
