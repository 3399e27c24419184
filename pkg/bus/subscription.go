package bus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// Subscription is the handle returned by Subscribe and Tap.
type Subscription struct {
	id      string
	topic   string
	bus     *Bus
	deliver func(any)
	active  atomic.Bool

	mu   sync.Mutex
	stop func() bool
}

func newSubscription(b *Bus, topic string) *Subscription {
	sub := &Subscription{
		id:    ulid.Make().String(),
		topic: topic,
		bus:   b,
	}
	sub.active.Store(true)
	return sub
}

// SubscribeContext is Subscribe bound to ctx: the subscription is removed
// when ctx is done. Unsubscribe may still be called earlier.
func SubscribeContext[T any](ctx context.Context, b *Bus, topic Topic[T], handler func(T)) *Subscription {
	sub := Subscribe(b, topic, handler)
	sub.bindContext(ctx)
	return sub
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Topic returns the topic name or tap pattern this subscription is for.
func (s *Subscription) Topic() string {
	if s == nil {
		return ""
	}
	return s.topic
}

// Active reports whether the handler can still be called.
func (s *Subscription) Active() bool {
	return s != nil && s.active.Load()
}

// Unsubscribe stops delivery. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active.Swap(false) {
		return
	}
	s.stopContext()
	if s.bus != nil {
		s.bus.remove(s)
	}
}

func (s *Subscription) bindContext(ctx context.Context) {
	if ctx == nil || !s.Active() {
		return
	}
	if ctx.Err() != nil {
		s.Unsubscribe()
		return
	}
	stop := context.AfterFunc(ctx, s.Unsubscribe)
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
}

func (s *Subscription) stopContext() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Subscriptions releases a group of handles together, typically with defer
// at the end of the owner's lifetime.
type Subscriptions struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add records subscriptions to be released by Close.
func (s *Subscriptions) Add(subs ...*Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, subs...)
}

// Len returns the number of recorded subscriptions.
func (s *Subscriptions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close unsubscribes every recorded handle in reverse order of addition.
func (s *Subscriptions) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Unsubscribe()
	}
}
