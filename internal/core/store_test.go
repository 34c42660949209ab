package core

import (
	"sync"
	"testing"

	"github.com/dkeye/Sketch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Defaults(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	snap := s.Snapshot()

	assert.Equal(t, domain.DefaultSettings(), snap.Room.Settings)
	assert.Empty(t, snap.Members)
	assert.Empty(t, snap.Chat)
	assert.True(t, snap.Pending)
	assert.False(t, snap.IsDrawer)
	assert.Equal(t, domain.UserID("u1"), s.LocalUser())
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	s.MergeMemberUpdate(member("a", false))

	snap := s.Snapshot()
	snap.Members[0].IsReady = true
	snap.Members = append(snap.Members, member("b", false))

	fresh := s.Snapshot()
	assert.Len(t, fresh.Members, 1)
	assert.False(t, fresh.Members[0].IsReady)
}

func TestSubscribe_ReceivesChangesUntilCancelled(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")

	var versions []uint64
	cancel := s.Subscribe(func(snap Snapshot) { versions = append(versions, snap.Version) })

	s.ToggleReady()
	s.MergeMemberUpdate(member("a", false))
	s.MergeMemberUpdate(member("a", false))
	cancel()
	cancel()
	s.ToggleReady()

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestSubscribe_ObserverMayReadStore(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	var got int
	s.Subscribe(func(Snapshot) { got = len(s.Snapshot().Members) })

	s.MergeMemberUpdate(member("a", false))
	assert.Equal(t, 1, got)
}

func TestClearRoom_ResetsAndBumpsEpoch(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	s.MergeRoomJoined(RoomJoined{RoomID: "r1", Members: []domain.Member{member("a", false)}, Theme: "ocean", NextDrawer: "u1"})
	s.SendChatMessage(domain.ChatEntry{Username: "me", Content: "hi"})
	s.ToggleReady()
	s.UpdatePending()
	before := s.Snapshot()

	s.ClearRoom()
	snap := s.Snapshot()

	assert.Equal(t, before.Epoch+1, snap.Epoch)
	assert.Greater(t, snap.Version, before.Version)
	assert.Empty(t, snap.Members)
	assert.Empty(t, snap.Chat)
	assert.Equal(t, domain.RoomConfig{Settings: domain.DefaultSettings()}, snap.Room)
	assert.Equal(t, domain.RoundState{}, snap.Round)
	assert.False(t, snap.IsDrawer)
	assert.False(t, snap.IsReadyLocal)
	assert.True(t, snap.Pending)
}

func TestScope_StaleAfterClear(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	old := s.Scope()
	require.True(t, old.Live())
	assert.True(t, old.MergeMemberUpdate(member("a", false)))

	s.ClearRoom()
	assert.False(t, old.Live())

	assert.False(t, old.MergeMemberUpdate(member("b", false)))
	assert.False(t, old.MergeRosterJoin([]domain.Member{member("c", false)}))
	assert.False(t, old.MergeRoomJoined(RoomJoined{RoomID: "r-old", Theme: "ocean"}))
	assert.False(t, old.MergeGameSettings(RoundUpdate{Theme: "ocean", NextDrawer: "u1"}))
	assert.False(t, old.MergeChatMessage(domain.ChatEntry{Username: "a", Content: "late"}))
	assert.False(t, old.UpdatePending())

	snap := s.Snapshot()
	assert.Empty(t, snap.Members)
	assert.Empty(t, snap.Chat)
	assert.True(t, snap.Pending)

	fresh := s.Scope()
	assert.Equal(t, old.Epoch()+1, fresh.Epoch())
	assert.True(t, fresh.MergeMemberUpdate(member("d", false)))
}

func TestDispose(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	sc := s.Scope()
	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	s.Dispose()
	s.Dispose()

	s.ToggleReady()
	s.MergeMemberUpdate(member("a", false))
	assert.False(t, sc.Live())
	assert.False(t, sc.UpdatePending())
	assert.Zero(t, calls)
	assert.Empty(t, s.Snapshot().Members)
}

func TestStore_ConcurrentMergesKeepRosterUnique(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, nil, "u1")
	sc := s.Scope()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range []string{"a", "b", "c", "d"} {
				sc.MergeMemberUpdate(member(id, i%2 == 0))
				s.MergeRosterJoin([]domain.Member{member(id, false)})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Members, 4)
	assertUniqueRoster(t, s.Snapshot().Members)
}
