package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/keyring"
	"github.com/codemon-ai/make-meeting-room/internal/migration"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

type DoctorCmd struct{}

// migrator is implemented by stores that expose their migration runner.
type migrator interface {
	Runner() (*migration.Runner, error)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version and migrations (only if DB is reachable)
	if dbReachable {
		if err := checkMigrations(ctx); err != nil {
			ctx.Printf("❌ Schema migrations: FAIL\n")
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.Printf("✓ Schema migrations: OK\n")
		}
	} else {
		ctx.Printf("⊘ Schema migrations: SKIPPED (database not reachable)\n")
	}

	// Check 3: Settings valid (only if DB is reachable)
	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			ctx.Printf("❌ Settings: FAIL\n")
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.Printf("✓ Settings: OK\n")
		}
	} else {
		ctx.Printf("⊘ Settings: SKIPPED (database not reachable)\n")
	}

	// Check 4: Clock/timezone sanity
	if err := checkClock(ctx, dbReachable); err != nil {
		ctx.Printf("❌ Clock/timezone: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 5: Groupware credentials (warning only)
	if dbReachable {
		if err := checkCredentials(ctx); err != nil {
			ctx.Printf("⚠ Groupware credentials: WARNING\n")
			ctx.Printf("   %v\n", err)
		} else {
			ctx.Printf("✓ Groupware credentials: OK\n")
		}
	}

	// Check 6: Calendar integration (informational)
	if ctx.Google.ServiceAccountEmail == "" || ctx.Google.PrivateKey == "" {
		ctx.Printf("⊘ Calendar: DISABLED (GOOGLE_SERVICE_ACCOUNT_EMAIL / GOOGLE_PRIVATE_KEY not set)\n")
	} else {
		ctx.Printf("✓ Calendar: CONFIGURED\n")
	}

	ctx.Printf("\n")
	if hasError {
		return errors.New("diagnostics found problems")
	}
	ctx.Printf("All checks passed.\n")
	return nil
}

func checkMigrations(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	runner, err := m.Runner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending", pending)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	result := validation.New().ValidateSettings(settings)
	return result.Err()
}

func checkClock(ctx *cli.Context, dbReachable bool) error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if !dbReachable {
		return nil
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	_, err = utils.LoadLocation(settings.Timezone)
	return err
}

func checkCredentials(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if _, _, err := ctx.Credentials(settings); err != nil {
		if !keyring.IsAvailable() {
			return fmt.Errorf("%v (OS keyring unavailable)", err)
		}
		return err
	}
	return nil
}
