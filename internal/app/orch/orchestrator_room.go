package orch

import (
	"context"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Create makes a new room and enters it. A room the client is already
// in is left only once the new one is confirmed.
func (o *Orchestrator) Create(ctx context.Context, req domain.RoomRequest) error {
	if err := o.Store.CreateRoom(ctx, req, core.ReplacingRoom()); err != nil {
		return err
	}
	o.enter()
	return nil
}

// Join enters the room identified by codeword.
func (o *Orchestrator) Join(ctx context.Context, codeword string) error {
	if err := o.Store.JoinRoom(ctx, codeword, core.ReplacingRoom()); err != nil {
		return err
	}
	o.enter()
	return nil
}

// Leave drops the subscriptions first so nothing merges into the
// cleared snapshot, then resets it.
func (o *Orchestrator) Leave() {
	room := o.Store.Snapshot().Room
	o.Adapter.Detach()
	o.Store.ClearRoom()
	log.Info().Str("module", "app.orch").Str("room", string(room.ID)).Msg("left room")
}

// SendChat echoes the message locally, then sends it to the room.
func (o *Orchestrator) SendChat(content string) error {
	o.Store.SendChatMessage(domain.ChatEntry{
		ClientID: uuid.NewString(),
		Username: o.Self.Username,
		Content:  content,
	})
	return o.Adapter.EmitChat(content)
}

// ToggleReady flips local readiness and tells the room about it.
func (o *Orchestrator) ToggleReady() error {
	return o.Adapter.EmitReady(o.Store.ToggleReady())
}

// enter rebinds the adapter to the epoch the intent just opened.
func (o *Orchestrator) enter() {
	o.Adapter.Attach()
	o.Store.RequestRoomEntry()
	log.Info().Str("module", "app.orch").Str("room", string(o.Store.Snapshot().Room.ID)).Msg("entering room")
}
