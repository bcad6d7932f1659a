package session

import (
	"context"
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
)

type recordingListener struct {
	events []string
	users  []models.User
	err    error
}

func (r *recordingListener) StartSession(ctx context.Context, user models.User) error {
	r.events = append(r.events, "start")
	r.users = append(r.users, user)
	return r.err
}

func (r *recordingListener) EndSession() {
	r.events = append(r.events, "end")
}

func TestCurrentWithoutLogin(t *testing.T) {
	gokeyring.MockInit()

	g := NewGate()
	if _, err := g.Current(); !errors.Is(err, apperrors.ErrNoUser) {
		t.Errorf("Current() error = %v, want ErrNoUser", err)
	}
	if _, err := g.Resume(context.Background()); !errors.Is(err, apperrors.ErrNoUser) {
		t.Errorf("Resume() error = %v, want ErrNoUser", err)
	}
}

func TestLoginLogout(t *testing.T) {
	gokeyring.MockInit()

	g := NewGate()
	l := &recordingListener{}
	g.Subscribe(l)

	alice := models.User{ID: 3, Username: "alice"}
	if err := g.Login(context.Background(), alice); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	got, err := g.Current()
	if err != nil || got != alice {
		t.Fatalf("Current() = %+v, %v, want %+v", got, err, alice)
	}

	// A fresh gate sees the persisted identity.
	other := NewGate()
	resumed := &recordingListener{}
	other.Subscribe(resumed)
	if u, err := other.Resume(context.Background()); err != nil || u != alice {
		t.Errorf("Resume() = %+v, %v, want %+v", u, err, alice)
	}
	if len(resumed.users) != 1 || resumed.users[0] != alice {
		t.Errorf("resumed listener users = %+v", resumed.users)
	}

	if err := g.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := g.Current(); !errors.Is(err, apperrors.ErrNoUser) {
		t.Errorf("Current() after Logout() error = %v, want ErrNoUser", err)
	}
	want := []string{"start", "end"}
	if len(l.events) != len(want) || l.events[0] != want[0] || l.events[1] != want[1] {
		t.Errorf("listener events = %v, want %v", l.events, want)
	}

	// Logging out twice is not an error.
	if err := g.Logout(); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestLoginRejectsInvalidUser(t *testing.T) {
	gokeyring.MockInit()

	g := NewGate()
	l := &recordingListener{}
	g.Subscribe(l)

	if err := g.Login(context.Background(), models.User{ID: 0}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Login() error = %v, want ErrBadRequest", err)
	}
	if len(l.events) != 0 {
		t.Errorf("listener notified for a rejected login: %v", l.events)
	}
}

func TestLoginReportsListenerErrors(t *testing.T) {
	gokeyring.MockInit()

	g := NewGate()
	failing := &recordingListener{err: apperrors.ErrNetworkUnavailable}
	ok := &recordingListener{}
	g.Subscribe(failing)
	g.Subscribe(ok)

	err := g.Login(context.Background(), models.User{ID: 1, Username: "bob"})
	if !errors.Is(err, apperrors.ErrNetworkUnavailable) {
		t.Errorf("Login() error = %v, want ErrNetworkUnavailable", err)
	}
	if len(ok.events) != 1 {
		t.Error("a failing listener must not stop later listeners")
	}
	if _, err := g.Current(); err != nil {
		t.Errorf("identity not persisted: %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	gokeyring.MockInit()

	g := NewGate()
	l := &recordingListener{}
	cancel := g.Subscribe(l)
	cancel()

	if err := g.Login(context.Background(), models.User{ID: 1}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(l.events) != 0 {
		t.Errorf("unsubscribed listener notified: %v", l.events)
	}
}
