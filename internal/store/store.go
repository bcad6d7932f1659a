// Package store owns the in-memory food records of the active user and date.
//
// Mutations are applied optimistically or after remote confirmation and are
// serialized through a single writer lock. Remote calls run without the lock;
// their results are applied afterwards only if the session (and, for loads,
// the load generation) that issued them is still current.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vitatrack/vitatrack/internal/constants"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/remote"
	"github.com/vitatrack/vitatrack/internal/utils"
)

// ErrStale is returned by Load when its result was discarded because a newer
// load or a session change happened while the request was in flight.
var ErrStale = errors.New("result discarded: superseded by a newer load or session")

// RemoteStore is the subset of the remote client the store depends on.
type RemoteStore interface {
	Fetch(ctx context.Context, userID int64, date *time.Time, mealType *models.MealType) ([]models.Record, error)
	Create(ctx context.Context, userID int64, r models.Record) (remote.CreateResult, error)
	Update(ctx context.Context, r models.Record) error
	Delete(ctx context.Context, id int64) error
}

// SyncStatus is the remote state of a record held by the store.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusPending SyncStatus = "pending"
	StatusFailed  SyncStatus = "failed"
)

// Stats counts remote outcomes since the store was created.
type Stats struct {
	Loads          int
	LoadFailures   int
	Creates        int
	CreateFailures int
	Updates        int
	UpdateFailures int
	Deletes        int
	DeleteFailures int
	Discarded      int
}

// Option configures a Store.
type Option func(*Store)

// WithDate sets the initially selected date.
func WithDate(date time.Time) Option {
	return func(s *Store) {
		s.selectedDate = date
	}
}

// Store holds the records of the active user for one selected date.
type Store struct {
	remote RemoteStore

	mu           sync.RWMutex
	user         *models.User
	epoch        uint64
	loadSeq      uint64
	selectedDate time.Time
	records      []models.Record
	mealCounts   map[models.MealType]int
	status       map[models.LocalID]SyncStatus
	stats        Stats

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// New returns an empty Store with no session, selecting today unless WithDate is given.
func New(rs RemoteStore, opts ...Option) *Store {
	s := &Store{
		remote:       rs,
		selectedDate: time.Now(),
		mealCounts:   zeroCounts(),
		status:       make(map[models.LocalID]SyncStatus),
		subs:         make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession binds user to the store, discards any previous state and
// loads the selected date.
func (s *Store) StartSession(ctx context.Context, user models.User) error {
	s.mu.Lock()
	s.epoch++
	s.user = &user
	s.clearLocked()
	date := s.selectedDate
	s.publishLocked()
	s.mu.Unlock()

	logger.Info("Session started", "user_id", user.ID, "username", user.Username)
	return s.Load(ctx, date)
}

// EndSession clears all state before returning. Results of calls issued
// during the ended session are discarded when they complete.
func (s *Store) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.user = nil
	s.clearLocked()
	s.publishLocked()
	logger.Info("Session ended, cleared food records")
}

// User returns the active user, if any.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Load replaces the collection with the records of the active user on date.
// On failure the collection is emptied rather than left stale.
func (s *Store) Load(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	s.selectedDate = date
	if s.user == nil {
		s.clearLocked()
		s.publishLocked()
		s.mu.Unlock()
		logger.Warn("No logged in user, cannot load food records")
		return fmt.Errorf("load %s: %w", utils.FormatDate(date), apperrors.ErrNoUser)
	}
	user := *s.user
	epoch := s.epoch
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	records, err := s.remote.Fetch(ctx, user.ID, &date, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || seq != s.loadSeq {
		s.stats.Discarded++
		logger.Debug("Discarding stale load", "date", utils.FormatDate(date))
		return ErrStale
	}

	s.stats.Loads++
	if err != nil {
		s.stats.LoadFailures++
		s.clearLocked()
		s.publishLocked()
		logger.Error("Failed to load food records", "user_id", user.ID, "date", utils.FormatDate(date), "error", err)
		return fmt.Errorf("load %s: %w", utils.FormatDate(date), err)
	}

	s.clearLocked()
	seen := make(map[models.LocalID]struct{}, len(records))
	for _, r := range records {
		r = r.Clone()
		if _, dup := seen[r.LocalID]; dup || r.LocalID == "" {
			r.LocalID = models.NewLocalID()
		}
		seen[r.LocalID] = struct{}{}
		s.records = append(s.records, r)
	}
	s.recountLocked()
	s.publishLocked()

	logger.Debug("Loaded food records", "user_id", user.ID, "date", utils.FormatDate(date), "count", len(s.records))
	return nil
}

// PreviousDay moves the selection one calendar day back and reloads.
func (s *Store) PreviousDay(ctx context.Context) error {
	return s.shiftDay(ctx, -1)
}

// NextDay moves the selection one calendar day forward and reloads.
func (s *Store) NextDay(ctx context.Context) error {
	return s.shiftDay(ctx, 1)
}

func (s *Store) shiftDay(ctx context.Context, days int) error {
	s.mu.RLock()
	date := utils.AddDays(s.selectedDate, days)
	s.mu.RUnlock()
	return s.Load(ctx, date)
}

// Add appends r immediately and then creates it remotely. On success the
// server identifiers are merged into the record with r's LocalID. On failure
// the record stays in the collection unsynced and the error is returned.
func (s *Store) Add(ctx context.Context, r models.Record) (models.Record, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		logger.Warn("Cannot add food: no logged in user")
		return r, fmt.Errorf("add %q: %w", r.Name, apperrors.ErrNoUser)
	}
	if err := r.Validate(); err != nil {
		s.mu.Unlock()
		return r, err
	}
	if r.LocalID == "" {
		r.LocalID = models.NewLocalID()
	} else if s.indexLocked(r.LocalID) >= 0 {
		s.mu.Unlock()
		return r, fmt.Errorf("%w: record %s is already in the store", apperrors.ErrBadRequest, r.LocalID)
	}

	r = r.Clone()
	r.ServerID = nil
	r.EntryID = nil
	if r.Unit == "" {
		r.Unit = constants.DefaultUnit
	}

	user := *s.user
	epoch := s.epoch
	s.records = append(s.records, r)
	s.status[r.LocalID] = StatusPending
	s.recountLocked()
	s.publishLocked()
	s.mu.Unlock()

	logger.Debug("Added food to local collection", "local_id", r.LocalID, "name", r.Name)

	result, err := s.remote.Create(ctx, user.ID, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stats.CreateFailures++
		if epoch == s.epoch && s.indexLocked(r.LocalID) >= 0 {
			s.status[r.LocalID] = StatusFailed
			s.publishLocked()
		}
		logger.Error("Failed to save food record", "local_id", r.LocalID, "name", r.Name, "error", err)
		return r.Clone(), fmt.Errorf("add %q: %w", r.Name, err)
	}
	s.stats.Creates++

	r.ServerID = models.Int64(result.FoodID)
	if result.EntryID != nil {
		r.EntryID = models.Int64(*result.EntryID)
	}

	if epoch != s.epoch {
		s.stats.Discarded++
		logger.Debug("Discarding create result from an ended session", "local_id", r.LocalID)
		return r.Clone(), nil
	}
	i := s.indexLocked(r.LocalID)
	if i < 0 {
		s.stats.Discarded++
		logger.Debug("Record removed before create completed", "local_id", r.LocalID)
		return r.Clone(), nil
	}

	s.records[i].ServerID = models.Int64(result.FoodID)
	s.records[i].EntryID = nil
	if result.EntryID != nil {
		s.records[i].EntryID = models.Int64(*result.EntryID)
	}
	delete(s.status, r.LocalID)
	s.publishLocked()

	logger.Debug("Reconciled server ids", "local_id", r.LocalID, "food_id", result.FoodID)
	return s.records[i].Clone(), nil
}

// Update pushes r to the server and, on success, replaces the record with
// the same LocalID.
func (s *Store) Update(ctx context.Context, r models.Record) error {
	if r.ServerID == nil {
		return fmt.Errorf("update %q: %w", r.Name, apperrors.ErrMissingIdentifier)
	}

	s.mu.RLock()
	if s.user == nil {
		s.mu.RUnlock()
		return fmt.Errorf("update %q: %w", r.Name, apperrors.ErrNoUser)
	}
	epoch := s.epoch
	r = r.Clone()
	if i := s.indexLocked(r.LocalID); i >= 0 {
		current := s.records[i]
		// The held record is authoritative: a pending add has no server
		// identity yet, whatever the caller's copy claims.
		if current.ServerID == nil {
			s.mu.RUnlock()
			return fmt.Errorf("update %q: %w", r.Name, apperrors.ErrMissingIdentifier)
		}
		if *current.ServerID != *r.ServerID {
			s.mu.RUnlock()
			return fmt.Errorf("%w: record %s is bound to server id %d, not %d", apperrors.ErrBadRequest, r.LocalID, *current.ServerID, *r.ServerID)
		}
		if r.EntryID == nil && current.EntryID != nil {
			r.EntryID = models.Int64(*current.EntryID)
		}
	}
	s.mu.RUnlock()

	if err := r.Validate(); err != nil {
		return err
	}

	err := s.remote.Update(ctx, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stats.UpdateFailures++
		logger.Error("Failed to update food record", "local_id", r.LocalID, "server_id", *r.ServerID, "error", err)
		return fmt.Errorf("update %q: %w", r.Name, err)
	}
	s.stats.Updates++

	if epoch != s.epoch {
		s.stats.Discarded++
		return nil
	}
	if i := s.indexLocked(r.LocalID); i >= 0 {
		s.records[i] = r
		s.recountLocked()
		s.publishLocked()
	}
	return nil
}

// Delete removes r remotely and, on success, drops the record with the same LocalID.
func (s *Store) Delete(ctx context.Context, r models.Record) error {
	if r.ServerID == nil {
		return fmt.Errorf("delete %q: %w", r.Name, apperrors.ErrMissingIdentifier)
	}

	s.mu.RLock()
	if s.user == nil {
		s.mu.RUnlock()
		return fmt.Errorf("delete %q: %w", r.Name, apperrors.ErrNoUser)
	}
	epoch := s.epoch
	// Deletes address the meal-record entry id when known and fall back to
	// food_id. Backends that only accept food_id need EntryID left unset.
	target, _ := r.DeleteTarget()
	if i := s.indexLocked(r.LocalID); i >= 0 {
		current := s.records[i]
		if current.ServerID == nil {
			s.mu.RUnlock()
			return fmt.Errorf("delete %q: %w", r.Name, apperrors.ErrMissingIdentifier)
		}
		if *current.ServerID != *r.ServerID {
			s.mu.RUnlock()
			return fmt.Errorf("%w: record %s is bound to server id %d, not %d", apperrors.ErrBadRequest, r.LocalID, *current.ServerID, *r.ServerID)
		}
		target, _ = current.DeleteTarget()
	}
	s.mu.RUnlock()

	err := s.remote.Delete(ctx, target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stats.DeleteFailures++
		logger.Error("Failed to delete food record", "local_id", r.LocalID, "target", target, "error", err)
		return fmt.Errorf("delete %q: %w", r.Name, err)
	}
	s.stats.Deletes++

	if epoch != s.epoch {
		s.stats.Discarded++
		return nil
	}
	if i := s.indexLocked(r.LocalID); i >= 0 {
		s.records = append(s.records[:i:i], s.records[i+1:]...)
		delete(s.status, r.LocalID)
		s.recountLocked()
		s.publishLocked()
	}
	return nil
}

// Records returns a copy of the collection in insertion order.
func (s *Store) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Record returns the record with the given LocalID.
func (s *Store) Record(id models.LocalID) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return models.Record{}, false
}

// MealCounts returns the per-meal-type counts for the selected date.
func (s *Store) MealCounts() map[models.MealType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCounts(s.mealCounts)
}

// SelectedDate returns the date the collection was loaded for.
func (s *Store) SelectedDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

// Status reports the sync status of a record. Loaded records and unknown ids
// report StatusSynced.
func (s *Store) Status(id models.LocalID) SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.status[id]; ok {
		return st
	}
	return StatusSynced
}

// Failures is the number of remote calls that failed.
func (st Stats) Failures() int {
	return st.LoadFailures + st.CreateFailures + st.UpdateFailures + st.DeleteFailures
}

// Stats returns the remote call counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Store) indexLocked(id models.LocalID) int {
	for i := range s.records {
		if s.records[i].LocalID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clearLocked() {
	s.records = nil
	s.status = make(map[models.LocalID]SyncStatus)
	s.mealCounts = zeroCounts()
}

func (s *Store) recountLocked() {
	s.mealCounts = CountMeals(s.records, s.selectedDate)
}

func cloneRecords(in []models.Record) []models.Record {
	out := make([]models.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
