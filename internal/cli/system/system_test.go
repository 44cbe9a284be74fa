package system

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/codemon-ai/make-meeting-room/internal/backup"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/keyring"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestInitCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "mr.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })
	ctx := &cli.Context{Store: store, Out: &bytes.Buffer{}}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	settings, err := store.GetSettings()
	if err != nil || settings.WorkStart != constants.DefaultWorkStart {
		t.Errorf("default settings not written: %+v, %v", settings, err)
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, out := setupTestDB(t)

	b := models.Booking{ID: "keep", Room: "R3.1", Date: "2025-12-10", Start: "10:00", End: "11:00",
		Status: constants.BookingStatusBooked, Source: constants.BookingSourceCLI, CreatedAt: "2025-12-09T00:00:00Z"}
	if err := ctx.Store.AddBooking(b); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := ctx.Store.GetBooking("keep"); err == nil {
		t.Error("history survived a forced reset")
	}
}

func TestDoctorCmd_Healthy(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	for _, want := range []string{"Database reachable: OK", "Schema migrations: OK", "Settings: OK", "Groupware credentials: WARNING", "Calendar: DISABLED"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_InvalidSettings(t *testing.T) {
	ctx, out := setupTestDB(t)
	s, _ := ctx.Store.GetSettings()
	s.WorkStart, s.WorkEnd = "18:00", "09:00"
	if err := ctx.Store.SaveSettings(s); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor passed with reversed working hours")
	}
	if !strings.Contains(out.String(), "Settings: FAIL") {
		t.Errorf("output = %s", out.String())
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor passed without a database")
	}
	if !strings.Contains(out.String(), "SKIPPED") {
		t.Errorf("dependent checks not skipped:\n%s", out.String())
	}
}

func TestKeyringCmds(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestDB(t)

	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No groupware user") {
		t.Errorf("status without user = %q", out.String())
	}

	ctx.Groupware.UserID = "alice"
	out.Reset()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No password stored") {
		t.Errorf("status without password = %q", out.String())
	}

	if err := keyring.SetPassword("alice", "pw"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "is stored") {
		t.Errorf("status with password = %q", out.String())
	}

	if err := (&KeyringDeleteCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := keyring.GetPassword("alice"); err == nil {
		t.Error("password still stored after delete")
	}
	if err := (&KeyringDeleteCmd{}).Run(ctx); err == nil {
		t.Error("second delete succeeded")
	}
}

func TestDebugCmds(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var path map[string]string
	if err := json.Unmarshal(out.Bytes(), &path); err != nil {
		t.Fatalf("db-path output is not JSON: %v", err)
	}
	if path["path"] != ctx.Store.GetConfigPath() {
		t.Errorf("path = %q", path["path"])
	}

	b := models.Booking{ID: "b-1", Room: "R2.1", Date: "2025-12-10", Start: "14:00", End: "15:00", Title: "sync",
		Status: constants.BookingStatusRejected, Source: constants.BookingSourceBot, CreatedAt: "2025-12-09T00:00:00Z"}
	if err := ctx.Store.AddBooking(b); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&DebugDumpBookingCmd{ID: "b-1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var got models.Booking
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("dump output is not JSON: %v", err)
	}
	if got.Room != "R2.1" || got.Status != constants.BookingStatusRejected {
		t.Errorf("dumped = %+v", got)
	}

	if err := (&DebugDumpBookingCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("dumping a missing booking succeeded")
	}
}

func TestBotCmd_RequiresTokens(t *testing.T) {
	ctx, _ := setupTestDB(t)
	ctx.ConfigDir = t.TempDir()

	if err := (&BotCmd{}).Run(ctx); err == nil || !strings.Contains(err.Error(), "SLACK_BOT_TOKEN") {
		t.Errorf("err = %v, want missing token error", err)
	}
}

func TestBackupCmds(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups") {
		t.Errorf("empty list output = %q", out.String())
	}

	b := models.Booking{ID: "b-1", Room: "R3.1", Date: "2025-12-10", Start: "10:00", End: "11:00", Title: "sync",
		Status: constants.BookingStatusBooked, Source: constants.BookingSourceCLI, CreatedAt: "2025-12-09T00:00:00Z"}
	if err := ctx.Store.AddBooking(b); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	snaps, err := mgr.List()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("List = %v, %v", snaps, err)
	}

	b.ID = "b-2"
	if err := ctx.Store.AddBooking(b); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{File: filepath.Base(snaps[0].Path)}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if _, err := ctx.Store.GetBooking("b-2"); err == nil {
		t.Error("booking added after the backup survived a restore")
	}
	if _, err := ctx.Store.GetBooking("b-1"); err != nil {
		t.Errorf("restored database lost b-1: %v", err)
	}
}
