package progress

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded reports that a compute pass was replaced by a newer request
// before it finished. Its result must be discarded, not rendered.
var ErrSuperseded = errors.New("superseded by a newer request")

// Dispatcher enforces last-request-wins across overlapping fetch-and-compute
// passes. Free-text queries fire on every keystroke, so a new pass can start
// while an older one is still in flight; Begin cancels the older pass's
// context, and the older pass's commit check fails so its stale result is
// dropped instead of flickering past the current one.
//
// The zero value is ready to use.
type Dispatcher struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin registers a new pass. It cancels whatever pass was previously in
// flight and returns a derived context for this pass plus a current func:
// call it when the pass finishes to learn whether the result is still the
// latest one requested.
func (d *Dispatcher) Begin(ctx context.Context) (context.Context, func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	d.gen++
	gen := d.gen

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	return ctx, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return gen == d.gen
	}
}
