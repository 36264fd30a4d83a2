package lifecycle

import (
	"context"
	"sync"
)

// Lifecycle tracks the background goroutines a driver starts so they can
// be stopped and awaited when the driver is closed.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New() *Lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

// Go runs fn in a goroutine that Stop waits for.
func (lc *Lifecycle) Go(fn func(ctx context.Context)) {
	lc.wg.Add(1)
	go func() {
		defer lc.wg.Done()
		fn(lc.ctx)
	}()
}

// Stop cancels the context, runs unblock (which must make the goroutines
// return, e.g. by closing what they read from) and waits for them.
func (lc *Lifecycle) Stop(unblock func()) {
	lc.cancel()
	if unblock != nil {
		unblock()
	}
	lc.wg.Wait()
}
