package depgraph

import (
	"context"
	"errors"
)

// Handle is a scoped resource: a value with an explicit release operation
// tied to the resolution scope that acquired it.
type Handle interface {
	// Value returns the acquired resource value.
	Value() any

	// Release runs the resource's teardown. cause carries the failure being
	// propagated into teardown, nil on the success path.
	Release(cause error) error
}

// AsyncHandle is a Handle whose release may suspend.
type AsyncHandle interface {
	Value() any
	Release(ctx context.Context, cause error) error
}

// Producer is a restartable resource: a paused computation that yields
// exactly one value and defers its cleanup until it is drained or a failure
// is thrown into it.
//
// The first Next call yields the value. A later Next call runs the cleanup
// path and reports ErrExhausted once there is nothing left to do.
type Producer interface {
	Next() (any, error)

	// Throw forwards a failure into the cleanup path. A nil return (or
	// ErrExhausted) means cleanup completed; anything else is treated as a
	// teardown failure and logged, never raised.
	Throw(cause error) error
}

// AsyncProducer is a Producer whose advance and throw may suspend.
type AsyncProducer interface {
	Next(ctx context.Context) (any, error)
	Throw(ctx context.Context, cause error) error
}

// NewHandle builds a Handle from an acquired value and a release function.
func NewHandle(value any, release func(cause error) error) Handle {
	return &funcHandle{value: value, release: release}
}

type funcHandle struct {
	value   any
	release func(cause error) error
}

func (h *funcHandle) Value() any { return h.value }

func (h *funcHandle) Release(cause error) error {
	if h.release == nil {
		return nil
	}
	return h.release(cause)
}

// NewAsyncHandle builds an AsyncHandle from an acquired value and a release
// function.
func NewAsyncHandle(value any, release func(ctx context.Context, cause error) error) AsyncHandle {
	return &asyncFuncHandle{value: value, release: release}
}

type asyncFuncHandle struct {
	value   any
	release func(ctx context.Context, cause error) error
}

func (h *asyncFuncHandle) Value() any { return h.value }

func (h *asyncFuncHandle) Release(ctx context.Context, cause error) error {
	if h.release == nil {
		return nil
	}
	return h.release(ctx, cause)
}

// NewProducer builds a Producer yielding value once; down runs on teardown
// and receives the forwarded failure, nil on the success path.
func NewProducer(value any, down func(cause error) error) Producer {
	return &oneShotProducer{value: value, down: down}
}

type oneShotProducer struct {
	value   any
	down    func(cause error) error
	yielded bool
	done    bool
}

func (p *oneShotProducer) Next() (any, error) {
	if !p.yielded {
		p.yielded = true
		return p.value, nil
	}
	if p.done {
		return nil, ErrExhausted
	}
	p.done = true
	if p.down != nil {
		if err := p.down(nil); err != nil {
			return nil, err
		}
	}
	return nil, ErrExhausted
}

func (p *oneShotProducer) Throw(cause error) error {
	if p.done {
		return nil
	}
	p.done = true
	if p.down == nil {
		return nil
	}
	return p.down(cause)
}

// NewAsyncProducer builds an AsyncProducer yielding value once; down runs
// on teardown with the forwarded failure, nil on the success path.
func NewAsyncProducer(value any, down func(ctx context.Context, cause error) error) AsyncProducer {
	return &asyncOneShotProducer{value: value, down: down}
}

type asyncOneShotProducer struct {
	value   any
	down    func(ctx context.Context, cause error) error
	yielded bool
	done    bool
}

func (p *asyncOneShotProducer) Next(ctx context.Context) (any, error) {
	if !p.yielded {
		p.yielded = true
		return p.value, nil
	}
	if p.done {
		return nil, ErrExhausted
	}
	p.done = true
	if p.down != nil {
		if err := p.down(ctx, nil); err != nil {
			return nil, err
		}
	}
	return nil, ErrExhausted
}

func (p *asyncOneShotProducer) Throw(ctx context.Context, cause error) error {
	if p.done {
		return nil
	}
	p.done = true
	if p.down == nil {
		return nil
	}
	return p.down(ctx, cause)
}

// drain advances a producer until exhaustion, running its cleanup path.
func drain(p Producer) error {
	for {
		if _, err := p.Next(); err != nil {
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			return err
		}
	}
}

func drainAsync(ctx context.Context, p AsyncProducer) error {
	for {
		if _, err := p.Next(ctx); err != nil {
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			return err
		}
	}
}
