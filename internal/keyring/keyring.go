package keyring

import (
	"errors"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetPassword retrieves the groupware password stored for userID.
func GetPassword(userID string) (string, error) {
	if userID == "" {
		return "", ErrNotFound
	}
	password, err := keyring.Get(constants.AppName, userID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return password, nil
}

// SetPassword stores the groupware password for userID.
func SetPassword(userID, password string) error {
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(constants.AppName, userID, password); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeletePassword removes the stored password for userID.
func DeletePassword(userID string) error {
	err := keyring.Delete(constants.AppName, userID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// ResolvePassword prefers an explicit password (flag or environment) and
// falls back to the keyring.
func ResolvePassword(userID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return GetPassword(userID)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
