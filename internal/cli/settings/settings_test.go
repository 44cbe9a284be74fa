package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store: store,
		Out:   out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, out, cleanup
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestSettingsCmd_List(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
	for _, want := range []string{"09:00", "18:00", "30 min", "Asia/Seoul"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		WorkStart:       strPtr("08:30"),
		WorkEnd:         strPtr("19:00"),
		SlotIntervalMin: intPtr(60),
		Timezone:        strPtr("UTC"),
		UserID:          strPtr("alice"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.WorkStart != "08:30" || settings.WorkEnd != "19:00" {
		t.Errorf("working hours = %s-%s, want 08:30-19:00", settings.WorkStart, settings.WorkEnd)
	}
	if settings.SlotIntervalMin != 60 {
		t.Errorf("slot interval = %d, want 60", settings.SlotIntervalMin)
	}
	if settings.Timezone != "UTC" || settings.GroupwareUserID != "alice" {
		t.Errorf("timezone/user = %s/%s", settings.Timezone, settings.GroupwareUserID)
	}
}

func TestSettingsCmd_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"end before start", SettingsCmd{WorkStart: strPtr("18:00"), WorkEnd: strPtr("09:00")}},
		{"bad time", SettingsCmd{WorkStart: strPtr("9am")}},
		{"slot too long", SettingsCmd{SlotIntervalMin: intPtr(240)}},
		{"slot not dividing a day", SettingsCmd{SlotIntervalMin: intPtr(7)}},
		{"unknown timezone", SettingsCmd{Timezone: strPtr("Nowhere/City")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, cleanup := setupTestDB(t)
			defer cleanup()

			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected validation error")
			}
			settings, _ := ctx.Store.GetSettings()
			if settings.WorkStart != "09:00" || settings.SlotIntervalMin != 30 || settings.Timezone != "Asia/Seoul" {
				t.Errorf("invalid update was saved: %+v", settings)
			}
		})
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("no-op settings failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("output = %q", out.String())
	}
}
