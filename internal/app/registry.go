package app

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type subscription struct {
	Event  string
	Cancel func()
}

// Registry tracks the channel subscriptions of one room binding so they
// can be torn down together.
type Registry struct {
	mu   sync.Mutex
	subs []subscription
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Bind(event string, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, subscription{Event: event, Cancel: cancel})
	log.Debug().Str("module", "app.registry").Str("event", event).Msg("bound handler")
}

// Events lists the bound event names in binding order.
func (r *Registry) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s.Event)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// CancelAll unsubscribes every bound handler and empties the registry.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, s := range subs {
		if s.Cancel != nil {
			s.Cancel()
		}
	}
	if len(subs) > 0 {
		log.Info().Str("module", "app.registry").Int("handlers", len(subs)).Msg("canceled subscriptions")
	}
	return len(subs)
}
