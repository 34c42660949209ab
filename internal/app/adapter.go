package app

import (
	"sync"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/rs/zerolog/log"
)

// EventAdapter is the only bridge between the realtime channel and the
// store: inbound events become scoped merges, outbound intents become
// emits.
type EventAdapter struct {
	store   *core.Store
	channel core.Channel
	reg     *Registry

	mu    sync.Mutex
	scope *core.Scope
}

func NewEventAdapter(store *core.Store, channel core.Channel) *EventAdapter {
	return &EventAdapter{
		store:   store,
		channel: channel,
		reg:     NewRegistry(),
	}
}

// Attach subscribes the room handlers against the store's current epoch.
// A previous binding is torn down first.
func (a *EventAdapter) Attach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reg.CancelAll()

	sc := a.store.Scope()
	a.scope = sc
	a.bind(sc, EventRoomJoined, a.onRoomJoined)
	a.bind(sc, EventMemberUpdate, a.onMemberUpdate)
	a.bind(sc, EventRosterJoin, a.onRosterJoin)
	a.bind(sc, EventGameSettings, a.onGameSettings)
	a.bind(sc, EventChatMessage, a.onChatMessage)
	log.Info().Str("module", "app.adapter").Uint64("epoch", sc.Epoch()).Msg("attached")
}

// Detach unsubscribes every handler. Events already in flight see a dead
// scope once the store is cleared.
func (a *EventAdapter) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reg.CancelAll()
	a.scope = nil
}

// Live reports whether handlers are bound to a room that is still current.
func (a *EventAdapter) Live() bool {
	a.mu.Lock()
	sc := a.scope
	a.mu.Unlock()
	return sc != nil && sc.Live()
}

func (a *EventAdapter) Subscriptions() []string { return a.reg.Events() }

func (a *EventAdapter) bind(sc *core.Scope, event string, fn func(*core.Scope, core.Frame) error) {
	off := a.channel.On(event, func(frame core.Frame) {
		if !sc.Live() {
			log.Debug().Str("module", "app.adapter").Str("event", event).Uint64("epoch", sc.Epoch()).Msg("event for cleared room dropped")
			return
		}
		if err := fn(sc, frame); err != nil {
			log.Warn().Err(err).Str("module", "app.adapter").Str("event", event).Msg("event dropped")
		}
	})
	a.reg.Bind(event, off)
}

func (a *EventAdapter) onRoomJoined(sc *core.Scope, frame core.Frame) error {
	p, err := decode[roomJoinedPayload](EventRoomJoined, frame)
	if err != nil {
		return err
	}
	sc.MergeRoomJoined(p.merge())
	if sc.UpdatePending() {
		log.Info().Str("module", "app.adapter").Str("room", string(p.RoomID)).Int("members", len(p.Members)).Msg("room metadata arrived")
	}
	return nil
}

func (a *EventAdapter) onMemberUpdate(sc *core.Scope, frame core.Frame) error {
	m, err := decode[domain.Member](EventMemberUpdate, frame)
	if err != nil {
		return err
	}
	sc.MergeMemberUpdate(m)
	return nil
}

func (a *EventAdapter) onRosterJoin(sc *core.Scope, frame core.Frame) error {
	p, err := decode[roomJoinedPayload](EventRosterJoin, frame)
	if err != nil {
		return err
	}
	sc.MergeRosterJoin(p.Members)
	return nil
}

func (a *EventAdapter) onGameSettings(sc *core.Scope, frame core.Frame) error {
	p, err := decode[gameSettingsPayload](EventGameSettings, frame)
	if err != nil {
		return err
	}
	sc.MergeGameSettings(core.RoundUpdate{Round: p.Round, Theme: p.Theme, NextDrawer: p.NextDrawer})
	return nil
}

func (a *EventAdapter) onChatMessage(sc *core.Scope, frame core.Frame) error {
	e, err := decode[domain.ChatEntry](EventChatMessage, frame)
	if err != nil {
		return err
	}
	e.ClientID = ""
	sc.MergeChatMessage(e)
	return nil
}

// EmitJoinRoom implements core.Emitter.
func (a *EventAdapter) EmitJoinRoom() error {
	return a.emit(EventJoinRoom, nil)
}

func (a *EventAdapter) EmitChat(content string) error {
	return a.emit(EventChatMessage, chatOutPayload{Content: content})
}

func (a *EventAdapter) EmitReady(ready bool) error {
	return a.emit(EventToggleReady, readyOutPayload{IsReady: ready})
}

func (a *EventAdapter) emit(event string, payload any) error {
	if err := a.channel.Emit(event, payload); err != nil {
		log.Error().Err(err).Str("module", "app.adapter").Str("event", event).Msg("emit failed")
		return err
	}
	log.Debug().Str("module", "app.adapter").Str("event", event).Msg("emitted")
	return nil
}
