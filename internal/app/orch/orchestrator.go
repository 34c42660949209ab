package orch

import (
	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
)

// Orchestrator drives one client's room lifecycle: it runs the entry
// intents and keeps the event adapter bound to the live room only.
type Orchestrator struct {
	Self    *domain.User
	Store   *core.Store
	Adapter *app.EventAdapter
}

func New(self *domain.User, store *core.Store, adapter *app.EventAdapter) *Orchestrator {
	store.UseEmitter(adapter)
	return &Orchestrator{Self: self, Store: store, Adapter: adapter}
}

// Snapshot is a convenience for read-only consumers.
func (o *Orchestrator) Snapshot() core.Snapshot {
	return o.Store.Snapshot()
}
