package client

import (
	"context"
	"sync"
)

// Outcome is the asynchronous result of a call. It settles exactly once,
// either resolving with a value or rejecting with an error, and never
// changes afterwards.
//
// Reactions attached with Then before settlement run on the settling
// goroutine, in the order they were attached, before Done is closed. A
// reaction must therefore not wait on its own Outcome. Reactions attached
// after settlement run immediately on the caller's goroutine.
type Outcome[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	value     T
	err       error
	reactions []func(T, error)
}

func newOutcome[T any]() *Outcome[T] {
	return &Outcome[T]{done: make(chan struct{})}
}

// Resolved returns an Outcome already resolved with v.
func Resolved[T any](v T) *Outcome[T] {
	o := newOutcome[T]()
	o.resolve(v)
	return o
}

// Rejected returns an Outcome already rejected with err.
func Rejected[T any](err error) *Outcome[T] {
	o := newOutcome[T]()
	o.reject(err)
	return o
}

func (o *Outcome[T]) resolve(v T) bool {
	return o.settle(v, nil)
}

func (o *Outcome[T]) reject(err error) bool {
	var zero T
	return o.settle(zero, err)
}

func (o *Outcome[T]) settle(v T, err error) bool {
	o.mu.Lock()
	if o.settled {
		o.mu.Unlock()
		return false
	}
	o.settled = true
	o.value = v
	o.err = err
	reactions := o.reactions
	o.reactions = nil
	o.mu.Unlock()

	for _, react := range reactions {
		react(v, err)
	}
	close(o.done)
	return true
}

// Then attaches reactions; nil reactions are skipped. It returns o so calls
// can be chained.
func (o *Outcome[T]) Then(onSuccess func(T), onError func(error)) *Outcome[T] {
	react := func(v T, err error) {
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(v)
		}
	}

	o.mu.Lock()
	if !o.settled {
		o.reactions = append(o.reactions, react)
		o.mu.Unlock()
		return o
	}
	v, err := o.value, o.err
	o.mu.Unlock()

	react(v, err)
	return o
}

// Done is closed once the Outcome has settled and its reactions have run.
func (o *Outcome[T]) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the Outcome has settled.
func (o *Outcome[T]) Settled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settled
}

// Wait blocks until the Outcome settles or ctx is done. Giving up on ctx does
// not abort the underlying call.
func (o *Outcome[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the Outcome settles.
func (o *Outcome[T]) Result() (T, error) {
	<-o.done
	return o.value, o.err
}

// All joins outcomes. The joint Outcome resolves with every value, in input
// order, once all have resolved, and rejects with the first rejection
// observed. An empty input resolves immediately with an empty slice.
func All[T any](outcomes ...*Outcome[T]) *Outcome[[]T] {
	joint := newOutcome[[]T]()
	if len(outcomes) == 0 {
		joint.resolve([]T{})
		return joint
	}

	var (
		mu      sync.Mutex
		values  = make([]T, len(outcomes))
		pending = len(outcomes)
	)
	for i, o := range outcomes {
		i := i
		o.Then(func(v T) {
			mu.Lock()
			values[i] = v
			pending--
			last := pending == 0
			mu.Unlock()
			if last {
				joint.resolve(values)
			}
		}, func(err error) {
			joint.reject(err)
		})
	}
	return joint
}
