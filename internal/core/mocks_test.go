package core

import (
	"context"

	"github.com/dkeye/Sketch/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- RoomAPI ---

type MockRoomAPI struct {
	mock.Mock
}

func (m *MockRoomAPI) CreateRoom(ctx context.Context, req domain.RoomRequest) (domain.RoomConfig, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.RoomConfig), args.Error(1)
}

func (m *MockRoomAPI) JoinRoom(ctx context.Context, codeword string) (domain.RoomConfig, error) {
	args := m.Called(ctx, codeword)
	return args.Get(0).(domain.RoomConfig), args.Error(1)
}

// --- Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(msg string) {
	m.Called(msg)
}

func (m *MockNotifier) Error(msg string) {
	m.Called(msg)
}

// --- Emitter ---

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) EmitJoinRoom() error {
	args := m.Called()
	return args.Error(0)
}

func canonicalRoom() domain.RoomConfig {
	return domain.RoomConfig{
		ID:       "room-1",
		Codeword: "ABCD",
		HostID:   "u1",
		Status:   domain.StatusPending,
		Settings: domain.Settings{MaxPlayers: 4, NumberOfPrompts: 3, TimeLimit: 60},
	}
}
