package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Sketch/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom asks the server for a new room and adopts the canonical
// config it returns. Failures are reported to the notifier and returned;
// the snapshot is left untouched.
func (s *Store) CreateRoom(ctx context.Context, req domain.RoomRequest, opts ...EnterOption) error {
	req.Codeword = strings.TrimSpace(req.Codeword)
	if err := domain.Validate(req); err != nil {
		return s.reject(NewValidationError(err))
	}
	return s.enter(ctx, "create", enterOptions(opts), func(ctx context.Context) (domain.RoomConfig, error) {
		return s.api.CreateRoom(ctx, req)
	})
}

// JoinRoom has the same contract as CreateRoom, keyed by codeword.
func (s *Store) JoinRoom(ctx context.Context, codeword string, opts ...EnterOption) error {
	codeword = strings.TrimSpace(codeword)
	if codeword == "" {
		return s.reject(&ValidationError{Field: "codeword", Reason: "is required"})
	}
	if len(codeword) > domain.MaxCodewordLen {
		return s.reject(&ValidationError{Field: "codeword", Reason: fmt.Sprintf("must be at most %d characters", domain.MaxCodewordLen)})
	}
	return s.enter(ctx, "join", enterOptions(opts), func(ctx context.Context) (domain.RoomConfig, error) {
		return s.api.JoinRoom(ctx, codeword)
	})
}

// EnterOption changes how a successful create or join is applied.
type EnterOption func(*enterConfig)

type enterConfig struct {
	replace bool
}

// ReplacingRoom drops the state of an established room in the same
// commit that adopts the new one, starting a new epoch. Nothing changes
// if the intent fails.
func ReplacingRoom() EnterOption {
	return func(c *enterConfig) { c.replace = true }
}

func enterOptions(opts []EnterOption) enterConfig {
	var c enterConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (s *Store) reject(err *ValidationError) error {
	log.Warn().Str("module", "core.store").Str("field", err.Field).Str("reason", err.Reason).Msg("intent rejected")
	s.notifier.Error(UserMessage(err))
	return err
}

func (s *Store) enter(ctx context.Context, op string, cfg enterConfig, call func(context.Context) (domain.RoomConfig, error)) error {
	epoch, ok := s.epoch()
	if !ok {
		return ErrDisposed
	}

	room, err := call(ctx)
	if err == nil {
		if verr := domain.Validate(room); verr != nil {
			err = &TransportError{Err: fmt.Errorf("%w: %v", ErrMalformedResponse, verr)}
		}
	}
	if err != nil {
		log.Error().Err(err).Str("module", "core.store").Str("op", op).Msg("room request failed")
		s.notifier.Error(UserMessage(err))
		return fmt.Errorf("%s room: %w", op, err)
	}

	var left domain.RoomID
	applied := s.commit(true, epoch, func(st *Snapshot) bool {
		if cfg.replace && st.Room.Established() {
			left = st.Room.ID
			reset(st)
		}
		st.Room = room
		return true
	})
	if !applied {
		log.Info().Str("module", "core.store").Str("op", op).Str("room", string(room.ID)).Msg("discarding room response for a cleared snapshot")
		return ErrStaleResult
	}
	if left != "" {
		log.Info().Str("module", "core.store").Str("op", op).Str("from", string(left)).Str("room", string(room.ID)).Msg("switched rooms")
	}
	log.Info().Str("module", "core.store").Str("op", op).Str("room", string(room.ID)).Str("status", string(room.Status)).Msg("room established")
	s.notifier.Success(MsgRoomReady)
	return nil
}

// RequestRoomEntry emits join-room once a room is established. It is fire
// and forget: completion shows up later as a room-joined merge.
func (s *Store) RequestRoomEntry() {
	s.mu.Lock()
	room, em, disposed := s.state.Room, s.emitter, s.disposed
	s.mu.Unlock()

	switch {
	case disposed:
		return
	case !room.Established():
		log.Warn().Str("module", "core.store").Err(ErrNoRoom).Msg("room entry requested")
		return
	case em == nil:
		log.Warn().Str("module", "core.store").Msg("room entry requested without an emitter")
		return
	}
	if err := em.EmitJoinRoom(); err != nil {
		log.Error().Err(err).Str("module", "core.store").Str("room", string(room.ID)).Msg("join-room emit failed")
	}
}

// ToggleReady flips the local readiness flag and returns the new value.
func (s *Store) ToggleReady() bool {
	var ready bool
	s.commit(false, 0, func(st *Snapshot) bool {
		st.IsReadyLocal = !st.IsReadyLocal
		ready = st.IsReadyLocal
		return true
	})
	return ready
}

// SendChatMessage appends a locally sent entry to the transcript.
func (s *Store) SendChatMessage(entry domain.ChatEntry) {
	s.commit(false, 0, func(st *Snapshot) bool {
		st.Chat = append(st.Chat, entry)
		return true
	})
}

func (s *Store) OpenStartModal()  { s.setStartModal(true) }
func (s *Store) CloseStartModal() { s.setStartModal(false) }

func (s *Store) setStartModal(open bool) {
	s.commit(false, 0, func(st *Snapshot) bool {
		if st.IsStartModalOpen == open {
			return false
		}
		st.IsStartModalOpen = open
		return true
	})
}

// IsStale reports whether err means an intent finished after its room
// was cleared.
func IsStale(err error) bool { return errors.Is(err, ErrStaleResult) }
