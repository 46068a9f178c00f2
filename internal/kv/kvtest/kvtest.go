// Package kvtest provides kv.Store doubles for tests.
package kvtest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrInjected is returned by Failing for every call it is told to fail.
var ErrInjected = errors.New("kvtest: injected failure")

// Failing is a store whose reads and writes fail on demand.
// Data written while writes succeed is kept in memory.
type Failing struct {
	FailReads  atomic.Bool
	FailWrites atomic.Bool
	Writes     atomic.Int64

	mu   sync.Mutex
	data map[string]string
}

// NewFailing returns a store that fails every read and write.
func NewFailing() *Failing {
	f := &Failing{data: make(map[string]string)}
	f.FailReads.Store(true)
	f.FailWrites.Store(true)
	return f
}

func (f *Failing) Get(_ context.Context, key string) (string, bool, error) {
	if f.FailReads.Load() {
		return "", false, ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *Failing) Set(_ context.Context, key, value string) error {
	f.Writes.Add(1)
	if f.FailWrites.Load() {
		return ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *Failing) Remove(_ context.Context, key string) error {
	if f.FailWrites.Load() {
		return ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *Failing) Close() error { return nil }
