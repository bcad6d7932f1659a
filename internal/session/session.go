// Package session persists the logged in identity and tells listeners when
// a session starts or ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/keyring"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
)

// Listener is notified of identity changes. The record store implements it.
type Listener interface {
	StartSession(ctx context.Context, user models.User) error
	EndSession()
}

// Gate owns the current identity. It is safe for concurrent use.
type Gate struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewGate() *Gate {
	return &Gate{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a function that removes it.
func (g *Gate) Subscribe(l Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = l
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

// Current returns the persisted identity or ErrNoUser.
func (g *Gate) Current() (models.User, error) {
	u, err := keyring.GetUser()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return models.User{}, apperrors.ErrNoUser
		}
		return models.User{}, err
	}
	return u, nil
}

// Login persists user and starts a session on every listener.
func (g *Gate) Login(ctx context.Context, user models.User) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: invalid user id %d", apperrors.ErrBadRequest, user.ID)
	}
	if err := keyring.SetUser(user); err != nil {
		return err
	}
	logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return g.start(ctx, user)
}

// Resume starts a session for the persisted identity, if there is one.
func (g *Gate) Resume(ctx context.Context) (models.User, error) {
	user, err := g.Current()
	if err != nil {
		return models.User{}, err
	}
	return user, g.start(ctx, user)
}

// Logout clears the persisted identity. Listeners have ended their sessions
// by the time it returns.
func (g *Gate) Logout() error {
	if err := keyring.DeleteUser(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	for _, l := range g.snapshot() {
		l.EndSession()
	}
	logger.Info("User logged out")
	return nil
}

func (g *Gate) start(ctx context.Context, user models.User) error {
	var errs []error
	for _, l := range g.snapshot() {
		if err := l.StartSession(ctx, user); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Gate) snapshot() []Listener {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Listener, 0, len(g.listeners))
	for i := 0; i < g.nextID; i++ {
		if l, ok := g.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}
