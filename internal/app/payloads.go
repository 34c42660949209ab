package app

import (
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/goccy/go-json"
)

// Inbound and outbound realtime event names.
const (
	EventRoomJoined   = "room-joined"
	EventMemberUpdate = "member-update"
	EventRosterJoin   = "roster-join"
	EventGameSettings = "game-settings"
	EventChatMessage  = "chat-message"

	EventJoinRoom    = "join-room"
	EventToggleReady = "toggle-ready"
)

type roomJoinedPayload struct {
	RoomID     domain.RoomID    `json:"roomId" validate:"required"`
	Members    []domain.Member  `json:"members" validate:"required,dive"`
	Settings   *domain.Settings `json:"settings" validate:"omitempty"`
	Theme      string           `json:"theme"`
	NextDrawer domain.UserID    `json:"nextDrawer"`
}

// merge converts the payload; absent settings stay zero so the store
// keeps the ones it has.
func (p roomJoinedPayload) merge() core.RoomJoined {
	rj := core.RoomJoined{
		RoomID:     p.RoomID,
		Members:    p.Members,
		Theme:      p.Theme,
		NextDrawer: p.NextDrawer,
	}
	if p.Settings != nil {
		rj.Settings = *p.Settings
	}
	return rj
}

type gameSettingsPayload struct {
	Round      int           `json:"round" validate:"gte=0"`
	Theme      string        `json:"theme" validate:"required"`
	NextDrawer domain.UserID `json:"nextDrawer" validate:"required"`
}

type chatOutPayload struct {
	Content string `json:"content"`
}

type readyOutPayload struct {
	IsReady bool `json:"isReady"`
}

// decode parses and validates one inbound payload. Any failure is a
// *core.ProtocolError.
func decode[T any](event string, frame core.Frame) (T, error) {
	var p T
	if err := json.Unmarshal(frame, &p); err != nil {
		return p, &core.ProtocolError{Event: event, Err: err}
	}
	if err := domain.Validate(p); err != nil {
		return p, &core.ProtocolError{Event: event, Err: err}
	}
	return p, nil
}
