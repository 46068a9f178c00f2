package orchestrator

import (
	"sync"
	"time"

	"github.com/nadzzz/talkboard/internal/tts"
)

// EventType classifies orchestrator events.
type EventType string

const (
	// EventState reports a playback state transition.
	EventState EventType = "state"
	// EventNoVoice is the one-time advisory that a language has no voice installed.
	EventNoVoice EventType = "no_voice"
	// EventFallback reports that the fallback backend spoke.
	EventFallback EventType = "fallback"
	// EventError reports a failed speak or a playback error.
	EventError EventType = "error"
)

// Event is delivered to subscribers.
type Event struct {
	Type    EventType `json:"type"`
	State   State     `json:"state,omitempty"`
	Backend tts.Kind  `json:"backend,omitempty"`
	Lang    string    `json:"lang,omitempty"`
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

const subscriberBuffer = 32

// Subscribe returns a channel of events and a function that unsubscribes.
// Slow subscribers miss events rather than block playback.
func (o *Orchestrator) Subscribe() (<-chan Event, func()) {
	return o.events.subscribe()
}

func (o *Orchestrator) emit(e Event) {
	e.Time = time.Now().UTC()
	o.events.publish(e)
}

type broadcaster struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Event
	closed bool
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[int]chan Event)
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
