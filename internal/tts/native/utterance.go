package native

import (
	"context"
	"sync"
	"sync/atomic"
)

// Utterance is a running platform speech request. It implements tts.Handle.
// Engines call Finish exactly once when the request ends.
type Utterance struct {
	cancel  func()
	stopped atomic.Bool

	once sync.Once
	done chan struct{}
	err  error
}

// NewUtterance returns an utterance that calls cancel to interrupt speech.
func NewUtterance(cancel func()) *Utterance {
	return &Utterance{cancel: cancel, done: make(chan struct{})}
}

// Finish records the outcome and closes Done.
func (u *Utterance) Finish(err error) {
	u.once.Do(func() {
		u.err = err
		close(u.done)
	})
}

func (u *Utterance) Done() <-chan struct{} { return u.done }

// Err is nil after a normal finish or a Stop.
func (u *Utterance) Err() error {
	select {
	case <-u.done:
	default:
		return nil
	}
	if u.stopped.Load() {
		return nil
	}
	return u.err
}

// Stop interrupts speech and waits until the engine has released it.
func (u *Utterance) Stop(ctx context.Context) error {
	if u.stopped.CompareAndSwap(false, true) && u.cancel != nil {
		u.cancel()
	}
	select {
	case <-u.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
