// Package calendar creates Google Calendar events through a service account
// with domain-wide delegation, acting as the meeting organizer.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// ErrDisabled is returned when no service account is configured.
var ErrDisabled = errors.New("google calendar is not configured")

// Config holds the service-account credentials.
type Config struct {
	ServiceAccountEmail string
	// PrivateKey is the PEM key; literal "\n" sequences are unescaped.
	PrivateKey string
	// DefaultUser is the organizer when a request names none.
	DefaultUser string
	Timezone    string
}

// EventInput describes a meeting to put on the calendar.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Date        string
	Interval    models.Interval
	Attendees   []string
}

// EventResult identifies a created event.
type EventResult struct {
	ID   string
	Link string
}

// Client inserts events on behalf of organizers.
type Client struct {
	cfg Config

	// newService is replaced in tests.
	newService func(ctx context.Context, subject string) (*gcal.Service, error)
}

// New builds a client. It never fails: a client without credentials
// reports Enabled() == false and every call returns ErrDisabled.
func New(cfg Config) *Client {
	cfg.PrivateKey = strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	if cfg.Timezone == "" {
		cfg.Timezone = constants.DefaultTimezone
	}
	c := &Client{cfg: cfg}
	c.newService = c.serviceFor
	return c
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.ServiceAccountEmail != "" && c.cfg.PrivateKey != ""
}

func (c *Client) serviceFor(ctx context.Context, subject string) (*gcal.Service, error) {
	conf := &jwt.Config{
		Email:      c.cfg.ServiceAccountEmail,
		PrivateKey: []byte(c.cfg.PrivateKey),
		Scopes:     []string{gcal.CalendarScope},
		TokenURL:   google.JWTTokenURL,
		Subject:    subject,
	}
	return gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
}

// CreateEvent inserts the event into the organizer's primary calendar and
// sends invitations to the attendees.
func (c *Client) CreateEvent(ctx context.Context, organizer string, in EventInput) (EventResult, error) {
	if !c.Enabled() {
		return EventResult{}, ErrDisabled
	}
	if organizer == "" {
		organizer = c.cfg.DefaultUser
	}
	if organizer == "" {
		return EventResult{}, fmt.Errorf("calendar organizer is required")
	}

	ev, err := BuildEvent(in, c.cfg.Timezone)
	if err != nil {
		return EventResult{}, err
	}

	svc, err := c.newService(ctx, organizer)
	if err != nil {
		return EventResult{}, fmt.Errorf("failed to create calendar service: %w", err)
	}

	created, err := svc.Events.Insert("primary", ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		logger.Warn("calendar event insert failed", "organizer", organizer, "error", err)
		return EventResult{}, fmt.Errorf("failed to create calendar event: %w", err)
	}

	logger.Info("calendar event created", "organizer", organizer, "id", created.Id)
	return EventResult{ID: created.Id, Link: created.HtmlLink}, nil
}

// BuildEvent renders the calendar payload for in. Times are wall-clock in tz.
func BuildEvent(in EventInput, tz string) (*gcal.Event, error) {
	if !in.Interval.Valid() {
		return nil, fmt.Errorf("invalid event time %s", in.Interval)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("event title is required")
	}

	ev := &gcal.Event{
		Summary:     in.Title,
		Description: in.Description,
		Location:    in.Location,
		Start: &gcal.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", in.Date, in.Interval.Start),
			TimeZone: tz,
		},
		End: &gcal.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", in.Date, in.Interval.End),
			TimeZone: tz,
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: constants.ReminderPopupMin},
				{Method: "email", Minutes: constants.ReminderEmailMin},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range in.Attendees {
		if email == "" {
			continue
		}
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{
			Email:          email,
			ResponseStatus: "needsAction",
		})
	}
	return ev, nil
}
