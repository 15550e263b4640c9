package service

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load whose result was dropped because a
// newer load started or the view was closed while it was in flight.
var ErrSuperseded = errors.New("load superseded")

// loader makes each fetch of a view a cancellable task. Starting a new one
// cancels the previous, and only the latest generation may apply its result.
type loader struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (l *loader) begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	l.cancel = cancel

	return ctx, l.gen
}

func (l *loader) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return gen == l.gen
}

// end releases the context of gen if it is still the latest.
func (l *loader) end(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen == l.gen && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// close cancels whatever is in flight and invalidates it.
func (l *loader) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.gen++
}
