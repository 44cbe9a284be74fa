package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/cli/rooms"
	"github.com/codemon-ai/make-meeting-room/internal/cli/settings"
	"github.com/codemon-ai/make-meeting-room/internal/cli/system"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	apperrors "github.com/codemon-ai/make-meeting-room/internal/errors"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite file path or PostgreSQL connection string." env:"MR_CONFIG" type:"string" default:"~/.config/mr/mr.db"`
	Debug   bool   `help:"Log debug output to stderr."`

	Groupware cli.GroupwareFlags `embed:"" prefix:"gw-"`
	Google    cli.GoogleFlags    `embed:"" prefix:"google-"`

	Check       rooms.CheckCmd       `cmd:"" help:"Show room availability for a date." default:"withargs"`
	Book        rooms.BookCmd        `cmd:"" help:"Book a room."`
	Interactive rooms.InteractiveCmd `cmd:"" aliases:"i" help:"Pick a date, room and time interactively and book it."`
	Schedule    rooms.ScheduleCmd    `cmd:"" help:"Create a calendar event without a room."`
	Board       rooms.BoardCmd       `cmd:"" help:"Browse availability day by day in a full-screen view."`
	Rooms       rooms.RoomsCmd       `cmd:"" help:"List bookable rooms."`
	History     rooms.HistoryCmd     `cmd:"" help:"Show booking history."`

	Setup    system.SetupCmd      `cmd:"" help:"Save groupware login and working hours."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Init     system.InitCmd       `cmd:"" help:"Initialize mr storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Keyring  struct {
		Status system.KeyringStatusCmd `cmd:"" help:"Show whether a groupware password is stored." default:"1"`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored groupware password."`
	} `cmd:"" help:"Manage the groupware password in the OS keyring."`
	Backup struct {
		Create  system.BackupCreateCmd  `cmd:"" help:"Snapshot the booking history database." default:"1"`
		List    system.BackupListCmd    `cmd:"" help:"List history snapshots."`
		Restore system.BackupRestoreCmd `cmd:"" help:"Restore the booking history from a snapshot."`
	} `cmd:"" help:"Manage booking history backups."`
	DebugCmd system.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Bot      system.BotCmd   `cmd:"" help:"Run the Slack bot."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Meeting room availability and booking for the groupware portal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	store, err := storage.New(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	dir := configDir(store)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:       store,
		Groupware:   CLI.Groupware,
		Google:      CLI.Google,
		ConfigDir:   dir,
		Debug:       CLI.Debug,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	// init and doctor handle a missing database themselves
	switch ctx.Command() {
	case "init", "doctor":
	default:
		if err := load(store); err != nil {
			apperrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		_ = store.Close()
		if errors.Is(err, cli.ErrReported) {
			logger.Debug("command failed after reporting", "command", ctx.Command(), "error", err)
			os.Exit(1)
		}
		apperrors.Fatal(err)
	}
}

// load opens the store, creating a SQLite database on first use.
func load(store storage.Provider) error {
	err := store.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		logger.Info("creating database", "path", store.GetConfigPath())
		return store.Init()
	}
	return err
}

func configDir(store storage.Provider) string {
	if !storage.IsPostgres(CLI.Config) {
		return filepath.Dir(store.GetConfigPath())
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", constants.AppName)
}
