// Package bus provides a typed, synchronous publish/subscribe hub.
// Handlers run on the publisher's goroutine, in subscription order, and every
// handler has returned before Publish does. Handler panics are not recovered.
package bus

import (
	"strings"
	"sync"
)

// Topic names an event kind and fixes the payload type carried by it.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic. Topic names are dot separated ("nav.element.focused")
// so taps can match them with wildcards.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string {
	return t.name
}

// Bus routes published payloads to subscribers.
// It is safe for concurrent use; delivery itself is never concurrent with
// respect to a single Publish call.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]*Subscription
	taps   []*tap
	closed bool
}

type tap struct {
	pattern string
	sub     *Subscription
	handler func(subject string, payload any)
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{topics: make(map[string][]*Subscription)}
}

// Subscribe registers handler for topic. The returned handle stays active
// until Unsubscribe is called or the bus is closed.
func Subscribe[T any](b *Bus, topic Topic[T], handler func(T)) *Subscription {
	sub := newSubscription(b, topic.name)
	if handler == nil {
		sub.active.Store(false)
		return sub
	}
	sub.deliver = func(payload any) {
		handler(payload.(T))
	}
	if !b.add(sub) {
		sub.active.Store(false)
	}
	return sub
}

// Publish delivers payload to every active subscriber of topic.
// Subscriptions added or removed by a handler take effect for later publishes,
// except that a handler removed mid-delivery is not called.
func Publish[T any](b *Bus, topic Topic[T], payload T) {
	subs, taps := b.snapshot(topic.name)
	for _, sub := range subs {
		if sub.active.Load() {
			sub.deliver(payload)
		}
	}
	for _, t := range taps {
		if t.sub.active.Load() && matchSubject(t.pattern, topic.name) {
			t.handler(topic.name, payload)
		}
	}
}

// Tap registers an untyped observer for every topic matching pattern.
// Supports "*" for a single token and ">" for the remaining tokens.
// Taps run after the typed subscribers of a publish.
func (b *Bus) Tap(pattern string, handler func(subject string, payload any)) *Subscription {
	sub := newSubscription(b, pattern)
	if handler == nil {
		sub.active.Store(false)
		return sub
	}
	t := &tap{pattern: pattern, sub: sub, handler: handler}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.active.Store(false)
		return sub
	}
	b.taps = append(b.taps, t)
	return sub
}

// Len returns the number of active subscriptions on topic.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[name])
}

// Close removes every subscription. Later publishes are dropped and later
// subscriptions are returned inactive.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for name, subs := range b.topics {
		for _, sub := range subs {
			sub.active.Store(false)
			sub.stopContext()
		}
		delete(b.topics, name)
	}
	for _, t := range b.taps {
		t.sub.active.Store(false)
	}
	b.taps = nil
}

func (b *Bus) add(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.topics[sub.topic] = append(b.topics[sub.topic], sub)
	return true
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.topics[sub.topic]; ok {
		for i, existing := range subs {
			if existing == sub {
				// Copy so in-flight snapshots keep their own slice.
				next := make([]*Subscription, 0, len(subs)-1)
				next = append(next, subs[:i]...)
				next = append(next, subs[i+1:]...)
				if len(next) == 0 {
					delete(b.topics, sub.topic)
				} else {
					b.topics[sub.topic] = next
				}
				return
			}
		}
	}
	for i, t := range b.taps {
		if t.sub == sub {
			b.taps = append(b.taps[:i:i], b.taps[i+1:]...)
			return
		}
	}
}

func (b *Bus) snapshot(name string) ([]*Subscription, []*tap) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, nil
	}
	subs := b.topics[name]
	var taps []*tap
	if len(b.taps) > 0 {
		taps = append(taps, b.taps...)
	}
	return subs, taps
}

// matchSubject checks if a subject matches a pattern with wildcards.
func matchSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	patternParts := strings.Split(pattern, ".")
	subjectParts := strings.Split(subject, ".")

	pi, si := 0, 0
	for pi < len(patternParts) && si < len(subjectParts) {
		switch patternParts[pi] {
		case "*":
			pi++
			si++
		case ">":
			return true
		default:
			if patternParts[pi] != subjectParts[si] {
				return false
			}
			pi++
			si++
		}
	}

	return pi == len(patternParts) && si == len(subjectParts)
}
