package system

import (
	"errors"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/keyring"
)

// KeyringStatusCmd reports whether a groupware password is stored
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	userID := ctx.UserID(settings)
	if userID == "" {
		ctx.Printf("No groupware user configured. Run 'mr setup'.\n")
		return nil
	}

	if !keyring.IsAvailable() {
		ctx.Printf("⚠️  OS keyring is not available on this system. Use GW_PASSWORD instead.\n")
		return nil
	}

	_, err = keyring.GetPassword(userID)
	switch {
	case err == nil:
		ctx.Printf("✓ Password for %s is stored in the OS keyring\n", userID)
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Printf("✗ No password stored for %s. Run 'mr setup' to save one.\n", userID)
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}

// KeyringDeleteCmd removes the stored groupware password
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	userID := ctx.UserID(settings)
	if userID == "" {
		return errors.New("no groupware user configured")
	}

	if err := keyring.DeletePassword(userID); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no password stored for %s", userID)
		}
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}

	ctx.Printf("✓ Password for %s deleted from OS keyring\n", userID)
	return nil
}
