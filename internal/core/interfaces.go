package core

import (
	"context"

	"github.com/dkeye/Sketch/internal/domain"
)

// RoomAPI is the request/response collaborator used by intents.
// Implementations return a *TransportError for failed calls.
type RoomAPI interface {
	CreateRoom(ctx context.Context, req domain.RoomRequest) (domain.RoomConfig, error)
	JoinRoom(ctx context.Context, codeword string) (domain.RoomConfig, error)
}

// Notifier shows user-visible outcomes. It is the only place intent
// failures end up besides the returned error.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Emitter sends outbound realtime signals on behalf of the store.
type Emitter interface {
	EmitJoinRoom() error
}
