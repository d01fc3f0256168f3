// Package event provides a generic fan-out Feed, modeled on
// github.com/ethereum/go-ethereum/event.Feed but expressed with Go generics
// instead of that package's reflect.Select-based dynamic dispatch (the
// go-ethereum Feed predates generics; this keeps the same Subscribe/
// Send/Unsubscribe contract its tests describe while staying type-safe).
//
// streamsvc uses Feed[IngestionMessage] as the broadcast channel every
// subscription's Driver holds its own receiver against, per the
// "ingestion source is typically a broadcast channel" note in the
// concurrency model.
package event

import "sync"

// Feed implements one-to-many message passing. The zero value is ready to
// use. A Feed must not be copied after first use.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

// Subscription represents a feed subscription created with Feed.Subscribe.
// Reading from Chan delivers every value sent on the feed after the
// subscription was created; Unsubscribe stops delivery and closes Chan.
type Subscription[T any] struct {
	feed *Feed[T]
	ch   chan T
	once sync.Once
}

// Subscribe adds a new subscriber with the given buffer size and returns a
// Subscription whose Chan method yields every subsequently sent value.
func (f *Feed[T]) Subscribe(bufferSize int) *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[*Subscription[T]]struct{})
	}
	sub := &Subscription[T]{feed: f, ch: make(chan T, bufferSize)}
	f.subs[sub] = struct{}{}
	return sub
}

// Send delivers value to every current subscriber. A subscriber whose
// buffer is full does not block Send; it simply misses the value, matching
// the "ingestion is a broadcast, not an RPC" guidance in the concurrency
// model (a slow subscriber falls behind, it does not stall ingestion).
func (f *Feed[T]) Send(value T) (nsent int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.ch <- value:
			nsent++
		default:
		}
	}
	return nsent
}

// Chan returns the channel values are delivered on.
func (s *Subscription[T]) Chan() <-chan T {
	return s.ch
}

// Unsubscribe removes the subscription from its feed and closes Chan. Safe
// to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
		close(s.ch)
	})
}
