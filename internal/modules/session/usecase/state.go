package usecase

import (
	"slices"
	"sync"

	"pomodoro/internal/modules/session/domain"
)

// State is the observable view of the session store. Only the interactor
// mutates it; readers take snapshots or subscribe.
type State struct {
	// notifyMu orders deliveries: subscribers see snapshots in the order
	// the updates were applied.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	version   uint64
	records   []domain.Record
	stats     domain.Stats
	loading   int
	current   *domain.Record
	nextSubID int
	subs      map[int]func(stateSnapshot)
}

type stateSnapshot struct {
	Version uint64
	Records []domain.Record
	Stats   domain.Stats
	Loading bool
	Current *domain.Record
}

func newState() *State {
	return &State{subs: map[int]func(stateSnapshot){}}
}

func (s *State) snapshot() stateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() stateSnapshot {
	snap := stateSnapshot{
		Version: s.version,
		Records: slices.Clone(s.records),
		Stats:   s.stats,
		Loading: s.loading > 0,
	}
	if s.current != nil {
		current := *s.current
		snap.Current = &current
	}
	return snap
}

// update applies fn under the state lock and notifies subscribers after
// releasing it, so subscribers may read the state again. Subscribers must
// not mutate the state from the callback.
func (s *State) update(fn func(*State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(s)
	s.version++
	snap := s.snapshotLocked()
	subs := make([]func(stateSnapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// beginLoad raises the loading flag and returns its release. Overlapping
// loads keep the flag raised until the last release.
func (s *State) beginLoad() func() {
	s.update(func(st *State) { st.loading++ })
	var once sync.Once
	return func() {
		once.Do(func() {
			s.update(func(st *State) {
				if st.loading > 0 {
					st.loading--
				}
			})
		})
	}
}

func (s *State) setRecords(records []domain.Record) {
	s.update(func(st *State) { st.records = slices.Clone(records) })
}

func (s *State) setStats(stats domain.Stats) {
	s.update(func(st *State) { st.stats = stats })
}

func (s *State) setCurrent(record *domain.Record) {
	s.update(func(st *State) {
		if record == nil {
			st.current = nil
			return
		}
		current := *record
		st.current = &current
	})
}

func (s *State) subscribe(fn func(stateSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
