package core

import (
	"sync"

	"github.com/dkeye/Sketch/internal/domain"
	"github.com/rs/zerolog/log"
)

// Store owns the snapshot of the room this client is in.
// All writes go through commit; merges never fail.
type Store struct {
	api      RoomAPI
	notifier Notifier
	local    domain.UserID

	mu       sync.Mutex
	state    Snapshot
	emitter  Emitter
	disposed bool

	obsMu     sync.Mutex
	observers map[uint64]func(Snapshot)
	nextObs   uint64
	delivered uint64
}

func NewStore(api RoomAPI, notifier Notifier, local domain.UserID) *Store {
	return &Store{
		api:       api,
		notifier:  notifier,
		local:     local,
		state:     emptySnapshot(),
		observers: make(map[uint64]func(Snapshot)),
	}
}

// UseEmitter sets the outbound signal sink used by RequestRoomEntry.
func (s *Store) UseEmitter(e Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitter = e
}

func (s *Store) LocalUser() domain.UserID { return s.local }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a copy of the state after every change.
// Observers may call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Dispose ends the store lifecycle: observers are dropped, scopes go
// stale and every later mutation is ignored.
func (s *Store) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.state.Epoch++
	s.mu.Unlock()

	s.obsMu.Lock()
	clear(s.observers)
	s.obsMu.Unlock()
	log.Info().Str("module", "core.store").Msg("store disposed")
}

// ClearRoom resets the snapshot to defaults and starts a new epoch.
func (s *Store) ClearRoom() {
	s.commit(false, 0, func(st *Snapshot) bool {
		reset(st)
		return true
	})
	log.Info().Str("module", "core.store").Msg("room cleared")
}

// reset restores defaults and opens a new epoch, keeping Version monotonic.
func reset(st *Snapshot) {
	next := emptySnapshot()
	next.Version = st.Version
	next.Epoch = st.Epoch + 1
	*st = next
}

func (s *Store) epoch() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Epoch, !s.disposed
}

// commit applies fn to the state. With scoped set, fn runs only while the
// epoch still equals epoch. fn reports whether it changed anything.
func (s *Store) commit(scoped bool, epoch uint64, fn func(st *Snapshot) bool) bool {
	s.mu.Lock()
	if s.disposed || (scoped && epoch != s.state.Epoch) {
		s.mu.Unlock()
		return false
	}
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	s.state.Version++
	snap := s.state.clone()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

func (s *Store) publish(snap Snapshot) {
	s.obsMu.Lock()
	if snap.Version <= s.delivered {
		s.obsMu.Unlock()
		return
	}
	s.delivered = snap.Version
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}
