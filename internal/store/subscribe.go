package store

import (
	"time"

	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/models"
)

// Snapshot is a consistent copy of the store state after a mutation.
type Snapshot struct {
	User         *models.User
	SelectedDate time.Time
	Records      []models.Record
	MealCounts   map[models.MealType]int
	Status       map[models.LocalID]SyncStatus
	Stats        Stats
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every applied
// mutation. A slow reader only sees the latest snapshot; the writer never
// blocks. Call cancel to stop delivery and close the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, constants.SnapshotBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		SelectedDate: s.selectedDate,
		Records:      cloneRecords(s.records),
		MealCounts:   cloneCounts(s.mealCounts),
		Status:       make(map[models.LocalID]SyncStatus, len(s.status)),
		Stats:        s.stats,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	for k, v := range s.status {
		snap.Status[k] = v
	}
	return snap
}

// publishLocked must be called with mu held so snapshots are delivered in
// mutation order.
func (s *Store) publishLocked() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot and replace it with the latest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
