package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/models"
)

var (
	// ErrNotFound is returned when nothing is stored under the requested key
	ErrNotFound = errors.New("entry not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetUser retrieves the logged in identity from the OS keyring.
// Returns ErrNotFound if nobody is logged in.
func GetUser() (models.User, error) {
	raw, err := get(constants.DefaultKeyringUser)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.User{}, fmt.Errorf("corrupt session entry in keyring: %w", err)
	}
	return u, nil
}

// SetUser stores the logged in identity in the OS keyring.
func SetUser(u models.User) error {
	if u.ID <= 0 {
		return fmt.Errorf("invalid user id %d", u.ID)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return set(constants.DefaultKeyringUser, string(data))
}

// DeleteUser removes the logged in identity from the OS keyring.
func DeleteUser() error {
	return del(constants.DefaultKeyringUser)
}

// GetConnectionString retrieves the development database connection string.
func GetConnectionString() (string, error) {
	return get(constants.DevDBKeyringUser)
}

// SetConnectionString stores the development database connection string.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return set(constants.DevDBKeyringUser, connStr)
}

// DeleteConnectionString removes the development database connection string.
func DeleteConnectionString() error {
	return del(constants.DevDBKeyringUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func get(user string) (string, error) {
	v, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(user, value string) error {
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", user, err)
	}
	return nil
}

func del(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", user, err)
	}
	return nil
}
