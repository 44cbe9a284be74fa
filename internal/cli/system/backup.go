package system

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/codemon-ai/make-meeting-room/internal/backup"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/storage"
)

var errBackupPostgres = errors.New("backups are only supported for SQLite databases; use pg_dump for PostgreSQL")

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	path := ctx.Store.GetConfigPath()
	if !isSQLite(path) {
		return nil, errBackupPostgres
	}
	return backup.NewManager(path), nil
}

func isSQLite(path string) bool {
	return !storage.IsPostgres(path) && path != "postgresql"
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		ctx.Printf("No backups in %s\n", mgr.Dir())
		return nil
	}

	w := tabwriter.NewWriter(ctx.Writer(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN\tSIZE\tFILE")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%d KB\t%s\n", s.Taken.Format("2006-01-02 15:04:05"), (s.Size+1023)/1024, filepath.Base(s.Path))
	}
	return w.Flush()
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or path, as shown by 'mr backup list'."`
}

func (cmd *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path := cmd.File
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if previous != "" {
		ctx.Printf("Backed up current database to: %s\n", previous)
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("restored database failed to load: %w", err)
	}
	ctx.Printf("✓ Restored booking history from %s\n", filepath.Base(path))
	return nil
}
