package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
)

type LoginCmd struct {
	UserID   int64  `arg:"" name:"user-id" help:"Backend user ID."`
	Username string `help:"Display name for the user." short:"u"`
}

func (c *LoginCmd) Validate() error {
	if c.UserID <= 0 {
		return fmt.Errorf("user ID must be positive, got %d", c.UserID)
	}
	return nil
}

func (c *LoginCmd) Run(ctx *Context) error {
	user := models.User{ID: c.UserID, Username: strings.TrimSpace(c.Username)}
	st := ctx.Attach(time.Now())

	err := ctx.Session.Login(context.Background(), user)
	if err != nil && !isSyncError(err) {
		return err
	}

	ctx.Printf("✓ Logged in as %s\n", displayName(user))
	if err != nil {
		ctx.Printf("⚠ Could not load today's records: %s\n", apperrors.Describe(err))
		return nil
	}
	ctx.Printf("  %d record(s) today\n", len(st.Records()))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	ctx.Attach(time.Now())
	if _, err := ctx.Session.Current(); errors.Is(err, apperrors.ErrNoUser) {
		ctx.Printf("Not logged in\n")
		return nil
	}
	if err := ctx.Session.Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	ctx.Printf("✓ Logged out\n")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	user, err := ctx.Session.Current()
	if err != nil {
		return err
	}
	ctx.Printf("%s (ID: %d)\n", displayName(user), user.ID)
	ctx.Printf("Server: %s\n", ctx.Client.Origin())
	return nil
}

func displayName(u models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user %d", u.ID)
}

// isSyncError reports whether err came from talking to the server rather
// than from persisting the session.
func isSyncError(err error) bool {
	return errors.Is(err, apperrors.ErrNetworkUnavailable) || errors.Is(err, apperrors.ErrBadResponse)
}
