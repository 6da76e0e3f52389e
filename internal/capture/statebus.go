package capture

import (
	"context"
	"sync"
)

// legal reports whether the transition from -> to is one of the graph's
// forward edges. Illegal transitions are never blocked (see StateBus.Publish)
// but are reported here so callers can log them.
func legal(from, to RecordingState) bool {
	switch from {
	case Initializing:
		return to == Recording
	case Recording:
		return to == RecordingPaused || to == RecordingFinished || to == Stopping
	case RecordingPaused:
		return to == Recording || to == RecordingFinished || to == Stopping
	case RecordingFinished:
		return to == Stopping
	case Stopping:
		return to == Draining
	case Draining:
		return false
	default:
		return false
	}
}

// StateBus broadcasts RecordingState the way a watch channel does: every
// subscriber observes the latest value, not a queued history of every
// publish. Publish never blocks and is safe to call concurrently.
type StateBus struct {
	mu      sync.Mutex
	cond    *sync.Cond
	state   RecordingState
	gen     uint64
	onIllegal func(from, to RecordingState)
}

// NewStateBus creates a bus starting in Initializing.
func NewStateBus() *StateBus {
	b := &StateBus{state: Initializing}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// OnIllegalTransition installs a callback invoked (outside the lock) whenever
// Publish observes a transition the legal-transition graph doesn't allow.
// Illegal transitions are still applied per the monotone/last-writer-wins
// rule; this is purely an observability hook.
func (b *StateBus) OnIllegalTransition(fn func(from, to RecordingState)) {
	b.mu.Lock()
	b.onIllegal = fn
	b.mu.Unlock()
}

// Borrow returns the current state.
func (b *StateBus) Borrow() RecordingState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Publish sets the bus to s. Publish is monotone: a publish of a state with
// lower priority than the current one is ignored, so the bus never
// regresses below the highest priority already reached (Stopping
// dominates, matching the spec's "Stopping must not be undone" invariant).
func (b *StateBus) Publish(s RecordingState) {
	b.mu.Lock()
	from := b.state
	illegal := !legal(from, s) && from != s
	if s.priority() >= from.priority() {
		b.state = s
		b.gen++
		b.cond.Broadcast()
	}
	cb := b.onIllegal
	b.mu.Unlock()

	if illegal && cb != nil {
		cb(from, s)
	}
}

// Subscribe returns a channel that receives the current state immediately
// and again after every accepted publish (a republish of the current state
// is delivered too), until ctx is done. The channel is
// buffered to depth 1 and never blocks the publisher: a slow subscriber only
// ever sees the latest state, never a backlog.
func (b *StateBus) Subscribe(ctx context.Context) <-chan RecordingState {
	ch := make(chan RecordingState, 1)
	go func() {
		defer close(ch)
		var lastGen uint64 = ^uint64(0)
		for {
			b.mu.Lock()
			for b.gen == lastGen {
				done := make(chan struct{})
				go func() {
					select {
					case <-ctx.Done():
						b.cond.Broadcast()
					case <-done:
					}
				}()
				b.cond.Wait()
				close(done)
				if ctx.Err() != nil {
					b.mu.Unlock()
					return
				}
			}
			state := b.state
			lastGen = b.gen
			b.mu.Unlock()

			select {
			case ch <- state:
			case <-ctx.Done():
				return
			}

			if ctx.Err() != nil {
				return
			}
		}
	}()
	return ch
}

// Changed blocks until the bus's state differs from prev, then returns the
// new state. It mirrors tokio::sync::watch::Receiver::changed for callers
// that want to poll rather than subscribe to a channel.
func (b *StateBus) Changed(ctx context.Context, prev RecordingState) RecordingState {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.state == prev {
		if ctx.Err() != nil {
			return b.state
		}
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				b.cond.Broadcast()
			case <-done:
			}
		}()
		b.cond.Wait()
		close(done)
	}
	return b.state
}
