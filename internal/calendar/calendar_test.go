package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

func sampleInput(t *testing.T) EventInput {
	t.Helper()
	iv, err := models.NewInterval("10:00", "11:30")
	if err != nil {
		t.Fatal(err)
	}
	return EventInput{
		Title:     "[R3.1] Design review",
		Location:  "R3.1 (3F)",
		Date:      "2025-03-10",
		Interval:  iv,
		Attendees: []string{"a@example.com", "", "b@example.com"},
	}
}

func TestBuildEvent(t *testing.T) {
	ev, err := BuildEvent(sampleInput(t), "Asia/Seoul")
	if err != nil {
		t.Fatalf("BuildEvent failed: %v", err)
	}

	if ev.Start.DateTime != "2025-03-10T10:00:00" || ev.End.DateTime != "2025-03-10T11:30:00" {
		t.Errorf("unexpected times %s - %s", ev.Start.DateTime, ev.End.DateTime)
	}
	if ev.Start.TimeZone != "Asia/Seoul" {
		t.Errorf("timezone = %s", ev.Start.TimeZone)
	}
	if len(ev.Attendees) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(ev.Attendees))
	}
	if ev.Attendees[0].ResponseStatus != "needsAction" {
		t.Errorf("attendee status = %s", ev.Attendees[0].ResponseStatus)
	}
	if ev.Reminders.UseDefault || len(ev.Reminders.Overrides) != 2 {
		t.Fatalf("unexpected reminders %+v", ev.Reminders)
	}
	if ev.Reminders.Overrides[0].Method != "popup" || ev.Reminders.Overrides[0].Minutes != 10 {
		t.Errorf("popup reminder = %+v", ev.Reminders.Overrides[0])
	}
	if ev.Reminders.Overrides[1].Method != "email" || ev.Reminders.Overrides[1].Minutes != 30 {
		t.Errorf("email reminder = %+v", ev.Reminders.Overrides[1])
	}
}

func TestBuildEvent_Invalid(t *testing.T) {
	in := sampleInput(t)
	in.Title = " "
	if _, err := BuildEvent(in, "UTC"); err == nil {
		t.Error("expected error for empty title")
	}

	in = sampleInput(t)
	in.Interval = models.Interval{Start: 600, End: 600}
	if _, err := BuildEvent(in, "UTC"); err == nil {
		t.Error("expected error for empty interval")
	}
}

func TestClient_Disabled(t *testing.T) {
	c := New(Config{})
	if c.Enabled() {
		t.Fatal("client without credentials should be disabled")
	}
	if _, err := c.CreateEvent(context.Background(), "x@example.com", sampleInput(t)); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestNew_UnescapesKey(t *testing.T) {
	c := New(Config{ServiceAccountEmail: "svc@example.com", PrivateKey: `line1\nline2`})
	if c.cfg.PrivateKey != "line1\nline2" {
		t.Errorf("key not unescaped: %q", c.cfg.PrivateKey)
	}
	if c.cfg.Timezone != "Asia/Seoul" {
		t.Errorf("default timezone = %s", c.cfg.Timezone)
	}
}

func TestClient_CreateEvent(t *testing.T) {
	var got gcal.Event
	var sendUpdates string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			http.NotFound(w, r)
			return
		}
		sendUpdates = r.URL.Query().Get("sendUpdates")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt1","htmlLink":"https://calendar.example/evt1"}`))
	}))
	defer srv.Close()

	c := New(Config{ServiceAccountEmail: "svc@example.com", PrivateKey: "key", DefaultUser: "owner@example.com"})
	var subject string
	c.newService = func(ctx context.Context, s string) (*gcal.Service, error) {
		subject = s
		return gcal.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	}

	res, err := c.CreateEvent(context.Background(), "", sampleInput(t))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if res.ID != "evt1" || res.Link != "https://calendar.example/evt1" {
		t.Errorf("unexpected result %+v", res)
	}
	if subject != "owner@example.com" {
		t.Errorf("organizer = %s, want default user", subject)
	}
	if sendUpdates != "all" {
		t.Errorf("sendUpdates = %q", sendUpdates)
	}
	if got.Summary != "[R3.1] Design review" || len(got.Attendees) != 2 {
		t.Errorf("unexpected payload %+v", got)
	}
}
