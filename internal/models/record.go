package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitatrack/vitatrack/internal/constants"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType parses a meal type name case-insensitively.
func ParseMealType(s string) (MealType, error) {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", fmt.Errorf("%w: unknown meal type %q", apperrors.ErrBadRequest, s)
	}
	return mt, nil
}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Ptr returns a pointer to a copy of m.
func (m MealType) Ptr() *MealType {
	return &m
}

// LocalID is the client-side identity of a record. It is never sent to the server.
type LocalID string

func NewLocalID() LocalID {
	return LocalID(uuid.New().String())
}

// Record is one nutrition entry. LocalID and ServerID live in separate id spaces
// and are never compared with each other.
type Record struct {
	LocalID  LocalID   `json:"local_id"`
	ServerID *int64    `json:"server_id,omitempty"` // backend food_id
	EntryID  *int64    `json:"entry_id,omitempty"`  // backend meal-record id
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	Unit     string    `json:"unit"`
	Amount   *float64  `json:"amount,omitempty"`
	MealType *MealType `json:"meal_type,omitempty"`
	Date     time.Time `json:"date"`
	ImageURL string    `json:"image_url,omitempty"`
}

// NewRecord creates a record with a fresh LocalID and the default unit.
func NewRecord(name string, calories int, date time.Time) Record {
	return Record{
		LocalID:  NewLocalID(),
		Name:     name,
		Calories: calories,
		Unit:     constants.DefaultUnit,
		Date:     date,
	}
}

// Synced reports whether the record has a server identity.
func (r Record) Synced() bool {
	return r.ServerID != nil
}

// DeleteTarget returns the identifier used to delete the record remotely.
// The meal-record id is preferred; the food id is the fallback.
func (r Record) DeleteTarget() (int64, bool) {
	if r.EntryID != nil {
		return *r.EntryID, true
	}
	if r.ServerID != nil {
		return *r.ServerID, true
	}
	return 0, false
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrBadRequest)
	}
	if r.Calories < 0 {
		return fmt.Errorf("%w: calories cannot be negative", apperrors.ErrBadRequest)
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrBadRequest)
	}
	if r.MealType != nil && !r.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", apperrors.ErrBadRequest, *r.MealType)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrBadRequest)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate store-owned pointers.
func (r Record) Clone() Record {
	c := r
	if r.ServerID != nil {
		v := *r.ServerID
		c.ServerID = &v
	}
	if r.EntryID != nil {
		v := *r.EntryID
		c.EntryID = &v
	}
	if r.Amount != nil {
		v := *r.Amount
		c.Amount = &v
	}
	if r.MealType != nil {
		v := *r.MealType
		c.MealType = &v
	}
	return c
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
