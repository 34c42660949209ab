package app

import (
	"sync"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/goccy/go-json"
)

type emitted struct {
	Event   string
	Payload any
}

// fakeChannel is an in-memory core.Channel. Captured handlers stay
// callable after off() to model events already in flight.
type fakeChannel struct {
	mu       sync.Mutex
	handlers map[string]map[int]core.Handler
	captured map[string][]core.Handler
	nextID   int
	emits    []emitted
	emitErr  error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		handlers: make(map[string]map[int]core.Handler),
		captured: make(map[string][]core.Handler),
	}
}

func (c *fakeChannel) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitErr != nil {
		return c.emitErr
	}
	c.emits = append(c.emits, emitted{Event: event, Payload: payload})
	return nil
}

func (c *fakeChannel) On(event string, h core.Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]core.Handler)
	}
	c.handlers[event][id] = h
	c.captured[event] = append(c.captured[event], h)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[event], id)
	}
}

// Deliver runs the currently subscribed handlers for event.
func (c *fakeChannel) Deliver(event string, payload any) {
	c.mu.Lock()
	hs := make([]core.Handler, 0, len(c.handlers[event]))
	for _, h := range c.handlers[event] {
		hs = append(hs, h)
	}
	c.mu.Unlock()
	frame := mustFrame(payload)
	for _, h := range hs {
		h(frame)
	}
}

// DeliverLate runs every handler ever subscribed for event, including
// ones already unsubscribed.
func (c *fakeChannel) DeliverLate(event string, payload any) {
	c.mu.Lock()
	hs := append([]core.Handler(nil), c.captured[event]...)
	c.mu.Unlock()
	frame := mustFrame(payload)
	for _, h := range hs {
		h(frame)
	}
}

func (c *fakeChannel) Subscribed(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers[event])
}

func (c *fakeChannel) Emits() []emitted {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]emitted(nil), c.emits...)
}

func mustFrame(payload any) core.Frame {
	if raw, ok := payload.(string); ok {
		return core.Frame(raw)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return b
}
