package core

import "github.com/dkeye/Sketch/internal/domain"

// Scope is a merge handle bound to one room lifetime. After ClearRoom or
// Dispose every method is a no-op, so late events cannot touch the next
// room's snapshot.
type Scope struct {
	store *Store
	epoch uint64
}

// Scope returns a handle bound to the current epoch.
func (s *Store) Scope() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Scope{store: s, epoch: s.state.Epoch}
}

func (sc *Scope) Epoch() uint64 { return sc.epoch }

// Live reports whether the scope's room has not been cleared yet.
func (sc *Scope) Live() bool {
	e, ok := sc.store.epoch()
	return ok && e == sc.epoch
}

func (sc *Scope) MergeRoomJoined(p RoomJoined) bool {
	return sc.store.commit(true, sc.epoch, func(st *Snapshot) bool { return applyRoomJoined(st, sc.store.local, p) })
}

func (sc *Scope) MergeMemberUpdate(m domain.Member) bool {
	return sc.store.commit(true, sc.epoch, func(st *Snapshot) bool { return upsertMember(st, m) })
}

func (sc *Scope) MergeRosterJoin(members []domain.Member) bool {
	return sc.store.commit(true, sc.epoch, func(st *Snapshot) bool { return unionMembers(st, members) })
}

func (sc *Scope) MergeGameSettings(u RoundUpdate) bool {
	return sc.store.commit(true, sc.epoch, func(st *Snapshot) bool { return applyRound(st, sc.store.local, u) })
}

func (sc *Scope) MergeChatMessage(e domain.ChatEntry) bool {
	return sc.store.commit(true, sc.epoch, func(st *Snapshot) bool { return appendChat(st, e) })
}

func (sc *Scope) UpdatePending() bool {
	return sc.store.commit(true, sc.epoch, clearPending)
}
