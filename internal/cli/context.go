package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/calendar"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	apperrors "github.com/codemon-ai/make-meeting-room/internal/errors"
	"github.com/codemon-ai/make-meeting-room/internal/groupware"
	"github.com/codemon-ai/make-meeting-room/internal/keyring"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/registry"
	"github.com/codemon-ai/make-meeting-room/internal/storage"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

// GroupwareFlags configures the portal session.
type GroupwareFlags struct {
	BaseURL  string `help:"Groupware base URL." env:"GW_BASE_URL" default:"https://gw.rsquare.co.kr"`
	UserID   string `help:"Groupware login id. Defaults to the id saved by 'mr setup'." env:"GW_USER_ID"`
	Password string `help:"Groupware password. Defaults to the OS keyring." env:"GW_PASSWORD"`

	UserType string `hidden:"" env:"GW_USER_TYPE"`
	OrgType  string `hidden:"" env:"GW_ORG_TYPE"`
	GroupSeq string `hidden:"" env:"GW_GROUP_SEQ"`
	CompSeq  string `hidden:"" env:"GW_COMP_SEQ"`
	DeptSeq  string `hidden:"" env:"GW_DEPT_SEQ"`
	EmpSeq   string `hidden:"" env:"GW_EMP_SEQ"`
	EmpName  string `hidden:"" env:"GW_EMP_NAME"`
	DeptName string `hidden:"" env:"GW_DEPT_NAME"`
	DutyCode string `hidden:"" env:"GW_DUTY_CODE"`
	Path     string `hidden:"" env:"GW_PATH"`
	SuperKey string `hidden:"" env:"GW_SUPER_KEY"`
}

// Subscriber returns the portal identity attached to reservations.
func (f GroupwareFlags) Subscriber(loginID string) models.Subscriber {
	return groupware.DefaultSubscriber(models.Subscriber{
		UserType: f.UserType,
		OrgType:  f.OrgType,
		GroupSeq: f.GroupSeq,
		CompSeq:  f.CompSeq,
		DeptSeq:  f.DeptSeq,
		EmpSeq:   f.EmpSeq,
		EmpName:  f.EmpName,
		LoginID:  loginID,
		DeptName: f.DeptName,
		DutyCode: f.DutyCode,
		Path:     f.Path,
		SuperKey: f.SuperKey,
	})
}

// GoogleFlags configures calendar event creation.
type GoogleFlags struct {
	ServiceAccountEmail string `help:"Service account e-mail for calendar events." env:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	PrivateKey          string `help:"Service account private key (PEM)." env:"GOOGLE_PRIVATE_KEY"`
	CalendarUser        string `help:"Calendar owner used when no organizer is given." env:"GOOGLE_CALENDAR_USER"`
}

type Context struct {
	Store     storage.Provider
	Groupware GroupwareFlags
	Google    GoogleFlags
	ConfigDir string
	Debug     bool
	// Interactive is true when stdin is a terminal; forms are only shown then.
	Interactive bool

	Out io.Writer
	Now func() time.Time
	// Portal replaces the groupware session when set.
	Portal booking.Portal

	session *groupware.Session
}

// Writer returns where command output goes.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Settings loads the persisted settings.
func (c *Context) Settings() (models.Settings, error) {
	s, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Window returns the working-hours window from settings.
func Window(s models.Settings) (models.Interval, error) {
	iv, err := validation.Window(s)
	if err != nil {
		return models.Interval{}, apperrors.WithHint(err, "fix working hours with 'mr settings'")
	}
	return iv, nil
}

// Location returns the configured timezone, falling back to local time.
func (c *Context) Location(s models.Settings) *time.Location {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", s.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Clock returns the current time in the configured timezone.
func (c *Context) Clock(s models.Settings) time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.Location(s))
}

// Today returns today's date in the configured timezone.
func (c *Context) Today(s models.Settings) string {
	return c.Clock(s).Format(constants.DateFormat)
}

// ParseDate resolves user date input (today, 내일, 2025-12-10, 251210).
// Empty input means today.
func (c *Context) ParseDate(s models.Settings, input string) (string, error) {
	if input == "" {
		return c.Today(s), nil
	}
	return utils.ParseDateInput(input, c.Clock(s))
}

// UserID returns the groupware login id from flags or settings.
func (c *Context) UserID(s models.Settings) string {
	if c.Groupware.UserID != "" {
		return c.Groupware.UserID
	}
	return s.GroupwareUserID
}

// Credentials resolves the groupware login. The password comes from the
// flag or environment first and the keyring second.
func (c *Context) Credentials(s models.Settings) (string, string, error) {
	userID := c.UserID(s)
	if userID == "" {
		return "", "", apperrors.WithHint(groupware.ErrMissingCredentials, "run 'mr setup' to save your groupware login")
	}
	password, err := keyring.ResolvePassword(userID, c.Groupware.Password)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", apperrors.WithHint(groupware.ErrMissingCredentials, "run 'mr setup' or set GW_PASSWORD")
		}
		return "", "", err
	}
	return userID, password, nil
}

// HasCredentials reports whether a portal login can be made without asking.
func (c *Context) HasCredentials(s models.Settings) bool {
	if c.Portal != nil {
		return true
	}
	_, _, err := c.Credentials(s)
	return err == nil
}

func (c *Context) portal(s models.Settings) (booking.Portal, error) {
	if c.Portal != nil {
		return c.Portal, nil
	}
	if c.session != nil {
		return c.session, nil
	}
	userID, password, err := c.Credentials(s)
	if err != nil {
		return nil, err
	}
	sess := groupware.NewSession(groupware.Config{
		BaseURL:    c.Groupware.BaseURL,
		UserID:     userID,
		Password:   password,
		Subscriber: c.Groupware.Subscriber(userID),
	})
	if err := sess.Open(); err != nil {
		return nil, err
	}
	c.session = sess
	return sess, nil
}

// Calendar builds the calendar client from flags and settings.
func (c *Context) Calendar(s models.Settings) *calendar.Client {
	return calendar.New(calendar.Config{
		ServiceAccountEmail: c.Google.ServiceAccountEmail,
		PrivateKey:          c.Google.PrivateKey,
		DefaultUser:         c.Google.CalendarUser,
		Timezone:            s.Timezone,
	})
}

// Service logs in to the portal and returns a booking service ready to use.
// When no credentials exist and the terminal is interactive, setup runs
// first.
func (c *Context) Service(ctx context.Context) (*booking.Service, models.Settings, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, s, err
	}
	if !c.HasCredentials(s) && c.Interactive {
		c.Printf("그룹웨어 로그인 정보가 없습니다. 설정을 시작합니다.\n\n")
		if err := RunSetup(c); err != nil {
			return nil, s, err
		}
		if s, err = c.Settings(); err != nil {
			return nil, s, err
		}
	}

	window, err := Window(s)
	if err != nil {
		return nil, s, err
	}
	portal, err := c.portal(s)
	if err != nil {
		return nil, s, err
	}

	svc := booking.New(booking.Config{
		Portal:   portal,
		Rooms:    registry.New(constants.DefaultRooms),
		Recorder: c.Store,
		Calendar: c.Calendar(s),
		Window:   window,
		Now:      c.Now,
		Location: c.Location(s),
	})

	if _, err := svc.Connect(ctx); err != nil {
		return nil, s, fmt.Errorf("failed to log in to groupware: %w", err)
	}
	return svc, s, nil
}

// Close releases the portal session.
func (c *Context) Close() {
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
	}
}
