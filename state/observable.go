package state

import "sync"

// Observable holds a value and pushes every change to its subscribers.
// Delivery is conflated: a slow subscriber only ever sees the newest value.
type Observable[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// NewObservable creates an observable holding initial
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value: initial,
		subs:  make(map[*Subscription[T]]struct{}),
	}
}

// Get returns the current value
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores v and delivers it to every subscriber without blocking
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.value = v
	for sub := range o.subs {
		sub.offer(v)
	}
}

// Subscribe returns a subscription that immediately holds the current value.
// Subscribing to a closed observable returns an already closed subscription.
func (o *Observable[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		ch:    make(chan T, 1),
		owner: o,
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	sub.ch <- o.value
	o.subs[sub] = struct{}{}
	return sub
}

// Close closes every subscription. Later Set calls are ignored.
func (o *Observable[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	for sub := range o.subs {
		sub.closeLocked()
	}
	clear(o.subs)
}

// Subscription is a scoped handle on an Observable. Release it with Close.
type Subscription[T any] struct {
	ch    chan T
	owner *Observable[T]
	done  bool // guarded by owner.mu
}

// C returns the channel carrying updates. It is closed when the subscription
// or its observable is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close stops delivery and closes the channel. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	delete(s.owner.subs, s)
	s.closeLocked()
}

// offer replaces any undelivered value with v. Caller holds owner.mu.
func (s *Subscription[T]) offer(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}

	select {
	case s.ch <- v:
	default:
	}
}

func (s *Subscription[T]) closeLocked() {
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}
