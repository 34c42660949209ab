package core

import (
	"github.com/dkeye/Sketch/internal/domain"
)

// RoomJoined is the membership data delivered when this client enters
// a room, and again as a roster snapshot.
type RoomJoined struct {
	RoomID     domain.RoomID
	Members    []domain.Member
	Settings   domain.Settings
	Theme      string
	NextDrawer domain.UserID
}

// RoundUpdate starts a round. Round is optional; zero means the server
// did not number it.
type RoundUpdate struct {
	Round      int
	Theme      string
	NextDrawer domain.UserID
}

// MergeRoomJoined adopts room identity, round fields and roster from the
// first membership data. Members already known are kept as they are.
func (s *Store) MergeRoomJoined(p RoomJoined) {
	s.commit(false, 0, func(st *Snapshot) bool { return applyRoomJoined(st, s.local, p) })
}

// MergeMemberUpdate upserts m by user id, keeping roster order.
func (s *Store) MergeMemberUpdate(m domain.Member) {
	s.commit(false, 0, func(st *Snapshot) bool { return upsertMember(st, m) })
}

// MergeRosterJoin appends the members whose user id is not in the roster.
func (s *Store) MergeRosterJoin(members []domain.Member) {
	s.commit(false, 0, func(st *Snapshot) bool { return unionMembers(st, members) })
}

// MergeGameSettings replaces theme and drawer together.
func (s *Store) MergeGameSettings(u RoundUpdate) {
	s.commit(false, 0, func(st *Snapshot) bool { return applyRound(st, s.local, u) })
}

// MergeChatMessage appends an entry broadcast by the server.
func (s *Store) MergeChatMessage(e domain.ChatEntry) {
	s.commit(false, 0, func(st *Snapshot) bool { return appendChat(st, e) })
}

// UpdatePending marks the initial room metadata as arrived. It reports
// whether this call made the transition.
func (s *Store) UpdatePending() bool {
	return s.commit(false, 0, clearPending)
}

func applyRoomJoined(st *Snapshot, local domain.UserID, p RoomJoined) bool {
	changed := false
	if p.RoomID != "" && st.Room.ID != p.RoomID {
		st.Room.ID = p.RoomID
		changed = true
	}
	if p.Settings != (domain.Settings{}) && st.Room.Settings != p.Settings {
		st.Room.Settings = p.Settings
		changed = true
	}

	round := st.Round
	round.Theme = p.Theme
	round.ActiveDrawerID = p.NextDrawer
	if round.CurrentRound == 0 && (p.Theme != "" || p.NextDrawer != "") {
		round.CurrentRound = 1
	}
	if setRound(st, local, round) {
		changed = true
	}
	if unionMembers(st, p.Members) {
		changed = true
	}
	return changed
}

func applyRound(st *Snapshot, local domain.UserID, u RoundUpdate) bool {
	round := st.Round
	switch {
	case u.Round > 0:
		round.CurrentRound = u.Round
	case u.Theme != st.Round.Theme || u.NextDrawer != st.Round.ActiveDrawerID:
		round.CurrentRound++
	}
	round.Theme = u.Theme
	round.ActiveDrawerID = u.NextDrawer
	return setRound(st, local, round)
}

func setRound(st *Snapshot, local domain.UserID, round domain.RoundState) bool {
	drawer := round.IsDrawer(local)
	if st.Round == round && st.IsDrawer == drawer {
		return false
	}
	st.Round = round
	st.IsDrawer = drawer
	return true
}

func upsertMember(st *Snapshot, m domain.Member) bool {
	if m.UserID == "" {
		return false
	}
	i := domain.IndexOf(st.Members, m.UserID)
	if i < 0 {
		st.Members = append(st.Members, m)
		return true
	}
	if sameMember(st.Members[i], m) {
		return false
	}
	st.Members[i] = m
	return true
}

func unionMembers(st *Snapshot, members []domain.Member) bool {
	changed := false
	for _, m := range members {
		if m.UserID == "" || domain.IndexOf(st.Members, m.UserID) >= 0 {
			continue
		}
		st.Members = append(st.Members, m)
		changed = true
	}
	return changed
}

func appendChat(st *Snapshot, e domain.ChatEntry) bool {
	st.Chat = append(st.Chat, e)
	return true
}

func clearPending(st *Snapshot) bool {
	if !st.Pending {
		return false
	}
	st.Pending = false
	return true
}

func sameMember(a, b domain.Member) bool {
	return a.UserID == b.UserID &&
		a.Username == b.Username &&
		a.IsReady == b.IsReady &&
		a.JoinedAt.Equal(b.JoinedAt)
}
