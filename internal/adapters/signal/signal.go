// Package signal is the realtime channel client: a WebSocket carrying
// named JSON events in both directions.
package signal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
	ErrRateLimited  = errors.New("rate limited")
)

type Options struct {
	URL          string
	Token        string
	ReadLimit    int64
	PingPeriod   time.Duration
	SendBuffer   int
	EmitLimit    int
	EmitInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 32
	}
	return o
}

// envelope is one frame on the wire.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type handlerEntry struct {
	id uint64
	fn core.Handler
}

// Conn implements core.Channel. Inbound handlers run on the read
// goroutine, one frame at a time, in arrival order.
type Conn struct {
	id      string
	opts    Options
	conn    *websocket.Conn
	send    chan core.Frame
	limiter *EmitRateLimiter

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc

	hmu      sync.RWMutex
	handlers map[string][]handlerEntry
	nextID   uint64

	pumps conc.WaitGroup
	done  chan struct{}
}

// Dial opens the realtime channel. Call Start to begin pumping frames.
func Dial(ctx context.Context, opts Options) (*Conn, error) {
	header := http.Header{}
	if opts.Token != "" {
		header.Set("Authorization", "Bearer "+opts.Token)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}
	c := newConn(ws, opts)
	log.Info().Str("module", "signal").Str("conn", c.id).Str("url", opts.URL).Msg("connected")
	return c, nil
}

func newConn(ws *websocket.Conn, opts Options) *Conn {
	opts = opts.withDefaults()
	c := &Conn{
		id:       uuid.NewString(),
		opts:     opts,
		conn:     ws,
		send:     make(chan core.Frame, opts.SendBuffer),
		handlers: make(map[string][]handlerEntry),
		done:     make(chan struct{}),
	}
	if opts.EmitLimit > 0 && opts.EmitInterval > 0 {
		c.limiter = NewEmitRateLimiter(opts.EmitLimit, opts.EmitInterval)
	}
	return c
}

func (c *Conn) ID() string { return c.id }

// Start runs the read and write pumps until ctx ends or the peer goes away.
func (c *Conn) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	closed := c.closed
	c.mu.Unlock()
	if closed {
		cancel()
	}
	c.pumps.Go(func() { c.writePump(ctx) })
	c.pumps.Go(func() { c.readPump(ctx) })
}

// Done is closed once the read pump has stopped.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Wait blocks until both pumps have exited.
func (c *Conn) Wait() { c.pumps.Wait() }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	_ = c.conn.Close()
	log.Info().Str("module", "signal").Str("conn", c.id).Msg("closed")
}

// Emit queues one outbound event. A nil payload is sent without a
// payload field.
func (c *Conn) Emit(event string, payload any) error {
	if c.limiter != nil && !c.limiter.Allow(event) {
		return fmt.Errorf("emit %s: %w", event, ErrRateLimited)
	}
	env := envelope{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("emit %s: %w", event, err)
		}
		env.Payload = raw
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	if err := c.TrySend(b); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	return nil
}

// On subscribes h to event. The returned func unsubscribes it.
func (c *Conn) On(event string, h core.Handler) (off func()) {
	c.hmu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: id, fn: h})
	c.hmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.hmu.Lock()
			defer c.hmu.Unlock()
			hs := c.handlers[event]
			for i := range hs {
				if hs[i].id == id {
					c.handlers[event] = append(hs[:i:i], hs[i+1:]...)
					break
				}
			}
			if len(c.handlers[event]) == 0 {
				delete(c.handlers, event)
			}
		})
	}
}
