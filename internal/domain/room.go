package domain

import (
	"fmt"
	"strings"
)

type (
	RoomID     string
	RoomStatus string
)

const (
	StatusPending  RoomStatus = "pending"
	StatusActive   RoomStatus = "active"
	StatusFinished RoomStatus = "finished"
)

const MaxCodewordLen = 64

// UnmarshalText accepts any letter case and rejects unknown statuses.
func (s *RoomStatus) UnmarshalText(b []byte) error {
	v := RoomStatus(strings.ToLower(strings.TrimSpace(string(b))))
	switch v {
	case StatusPending, StatusActive, StatusFinished:
		*s = v
		return nil
	}
	return fmt.Errorf("unknown room status %q", string(b))
}

// Settings are the numeric room parameters chosen by the host.
// TimeLimit is in seconds.
type Settings struct {
	MaxPlayers      int `json:"maxPlayers" validate:"gt=0"`
	NumberOfPrompts int `json:"numberOfPrompts" validate:"gt=0"`
	TimeLimit       int `json:"timeLimit" validate:"gt=0"`
}

func DefaultSettings() Settings {
	return Settings{MaxPlayers: 2, NumberOfPrompts: 2, TimeLimit: 30}
}

// RoomConfig is the canonical room description returned by the server.
type RoomConfig struct {
	ID       RoomID     `json:"_id" validate:"required"`
	Codeword string     `json:"codeword" validate:"required,max=64"`
	HostID   UserID     `json:"hostId" validate:"required"`
	Status   RoomStatus `json:"status" validate:"oneof=pending active finished"`
	Settings Settings   `json:"settings"`
}

// Established reports whether enough is known to ask the server for entry.
func (c RoomConfig) Established() bool {
	return c.ID != "" || c.Codeword != ""
}

// RoomRequest is the create-room input.
type RoomRequest struct {
	Codeword        string `json:"codeword" validate:"required,max=64"`
	MaxPlayers      int    `json:"maxPlayers" validate:"gt=0"`
	NumberOfPrompts int    `json:"numberOfPrompts" validate:"gt=0"`
	TimeLimit       int    `json:"timeLimit" validate:"gt=0"`
}

// NewRoomRequest builds a create-room request from a codeword and settings.
func NewRoomRequest(codeword string, s Settings) RoomRequest {
	return RoomRequest{
		Codeword:        codeword,
		MaxPlayers:      s.MaxPlayers,
		NumberOfPrompts: s.NumberOfPrompts,
		TimeLimit:       s.TimeLimit,
	}
}
