package core

import (
	"slices"

	"github.com/dkeye/Sketch/internal/domain"
)

// Snapshot is the client-side view of the active room.
// Version grows with every change; Epoch grows with every clear.
type Snapshot struct {
	Version uint64 `json:"version"`
	Epoch   uint64 `json:"epoch"`

	Room    domain.RoomConfig  `json:"room"`
	Members []domain.Member    `json:"members"`
	Round   domain.RoundState  `json:"round"`
	Chat    []domain.ChatEntry `json:"chat"`

	IsDrawer         bool `json:"isDrawer"`
	IsReadyLocal     bool `json:"isReadyLocal"`
	IsStartModalOpen bool `json:"isStartModalOpen"`
	Pending          bool `json:"pending"`
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Room:    domain.RoomConfig{Settings: domain.DefaultSettings()},
		Members: []domain.Member{},
		Chat:    []domain.ChatEntry{},
		Pending: true,
	}
}

func (s Snapshot) clone() Snapshot {
	s.Members = slices.Clone(s.Members)
	s.Chat = slices.Clone(s.Chat)
	return s
}

// Member looks up a roster entry by user id.
func (s Snapshot) Member(id domain.UserID) (domain.Member, bool) {
	if i := domain.IndexOf(s.Members, id); i >= 0 {
		return s.Members[i], true
	}
	return domain.Member{}, false
}
