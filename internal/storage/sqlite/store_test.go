package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "mr.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestLoad_NotInitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestInit_DefaultSettings(t *testing.T) {
	store := setupStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults %+v", settings, DefaultSettings())
	}
}

func TestInit_Idempotent(t *testing.T) {
	store := setupStore(t)

	settings, _ := store.GetSettings()
	settings.WorkStart = "08:30"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	got, _ := store.GetSettings()
	if got.WorkStart != "08:30" {
		t.Errorf("Init overwrote settings: %+v", got)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	store := setupStore(t)

	want := models.Settings{
		WorkStart:       "08:00",
		WorkEnd:         "19:00",
		SlotIntervalMin: 15,
		Timezone:        "UTC",
		GroupwareUserID: "jdoe",
	}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestBookings(t *testing.T) {
	store := setupStore(t)

	bookings := []models.Booking{
		{ID: "a", Room: "R3.1", Date: "2025-12-05", Start: "10:00", End: "11:00", Title: "Standup",
			Source: constants.BookingSourceCLI, Status: constants.BookingStatusBooked, CreatedAt: "2025-12-04T09:00:00Z"},
		{ID: "b", Room: "R2.1", Date: "2025-12-06", Start: "14:00", End: "15:00",
			Source: constants.BookingSourceBot, Status: constants.BookingStatusConflict, Message: "taken", CreatedAt: "2025-12-04T10:00:00Z"},
		{ID: "c", Room: "R3.5", Date: "2025-12-08", Start: "09:00", End: "09:30",
			Source: constants.BookingSourceCLI, Status: constants.BookingStatusRejected, CreatedAt: "2025-12-04T11:00:00Z", EventLink: "https://cal/x"},
	}
	for _, b := range bookings {
		if err := store.AddBooking(b); err != nil {
			t.Fatalf("AddBooking(%s) failed: %v", b.ID, err)
		}
	}

	got, err := store.GetBooking("b")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got != bookings[1] {
		t.Errorf("GetBooking() = %+v, want %+v", got, bookings[1])
	}
	if _, err := store.GetBooking("missing"); err == nil {
		t.Error("expected error for missing booking")
	}

	tests := []struct {
		name     string
		from, to string
		limit    int
		wantIDs  []string
	}{
		{"all newest first", "", "", 0, []string{"c", "b", "a"}},
		{"from bound", "2025-12-06", "", 0, []string{"c", "b"}},
		{"range", "2025-12-05", "2025-12-06", 0, []string{"b", "a"}},
		{"limit", "", "", 1, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := store.GetBookings(tt.from, tt.to, tt.limit)
			if err != nil {
				t.Fatalf("GetBookings failed: %v", err)
			}
			if len(list) != len(tt.wantIDs) {
				t.Fatalf("got %d bookings, want %d", len(list), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if list[i].ID != id {
					t.Errorf("[%d] id = %s, want %s", i, list[i].ID, id)
				}
			}
		})
	}
}
