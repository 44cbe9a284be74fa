// Package groupware drives the company portal over HTTP: it owns the login
// session and exposes the reservation listing, resource tree and reservation
// submission endpoints.
package groupware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

const (
	DefaultBaseURL = "https://gw.rsquare.co.kr"

	pathLoginPage   = "/gw/uat/uia/egovLoginUsr.do"
	pathActionLogin = "/gw/uat/uia/actionLogin.do"
	pathUserMain    = "/gw/userMain.do"
	pathBizbox      = "/gw/bizbox.do"
	pathCalendar    = "/schedule/Views/Common/resource/calendar?menu_no=302020000"

	pathResourceTree      = "/schedule/WebResource/SearchEmpResourceTree"
	pathReservationList   = "/schedule/WebResource/GetCalResourceListFull"
	pathInsertReservation = "/schedule/WebResource/InsertResourceReservation"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko)"
)

// State is the lifecycle state of a portal session.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

var (
	ErrInvalidState       = errors.New("invalid session state transition")
	ErrNotAuthenticated   = errors.New("portal session is not authenticated")
	ErrSessionExpired     = errors.New("portal session expired")
	ErrLoginFailed        = errors.New("portal login failed")
	ErrMissingCredentials = errors.New("portal user id and password are required")
)

// Config configures a Session.
type Config struct {
	BaseURL    string
	UserID     string
	Password   string
	Subscriber models.Subscriber
	Timeout    time.Duration
	// RequestsPerSecond bounds outbound request rate; zero means 5.
	RequestsPerSecond float64
}

// Session is an explicitly owned portal session. The process creates one,
// opens it, logs in, and hands it to the components that need the portal.
// Transitions: closed -> open -> authenticated, authenticated -> open on
// expiry, any -> closed.
type Session struct {
	cfg     Config
	limiter *rate.Limiter

	mu     sync.Mutex
	state  State
	client *http.Client

	loginMu sync.Mutex
}

// NewSession returns a closed session.
func NewSession(cfg Config) *Session {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.PortalRequestTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Session{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open allocates the cookie jar and HTTP client. Only valid from closed.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		return fmt.Errorf("%w: open from %s", ErrInvalidState, s.state)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	s.client = &http.Client{Jar: jar, Timeout: s.cfg.Timeout}
	s.state = StateOpen
	return nil
}

// Close drops the session cookies. Valid from any state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	s.client = nil
	s.state = StateClosed
	return nil
}

// Login authenticates an open (or expired) session. On failure the session
// stays open so the caller can retry.
func (s *Session) Login(ctx context.Context) error {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	if s.State() == StateClosed {
		return fmt.Errorf("%w: login on closed session", ErrInvalidState)
	}
	if s.cfg.UserID == "" || s.cfg.Password == "" {
		return ErrMissingCredentials
	}

	if _, err := s.get(ctx, pathLoginPage); err != nil {
		return fmt.Errorf("%w: load login page: %v", ErrLoginFailed, err)
	}

	form := url.Values{
		"userId":   {s.cfg.UserID},
		"password": {s.cfg.Password},
		"userSe":   {"USER"},
	}
	if _, err := s.postForm(ctx, pathActionLogin, form); err != nil {
		return fmt.Errorf("%w: submit credentials: %v", ErrLoginFailed, err)
	}

	page, err := s.get(ctx, pathUserMain)
	if err != nil {
		return fmt.Errorf("%w: open main page: %v", ErrLoginFailed, err)
	}
	if !strings.Contains(page.finalURL, "userMain.do") && !strings.Contains(page.body, "userMain") {
		s.setState(StateOpen)
		return fmt.Errorf("%w: credentials rejected", ErrLoginFailed)
	}

	// Activates the schedule module's server-side session; failures are not fatal.
	if _, err := s.postForm(ctx, pathBizbox, url.Values{"selectedMenuNo": {"300000000"}}); err != nil {
		logger.Debug("schedule menu activation failed", "error", err)
	}
	if _, err := s.get(ctx, pathCalendar); err != nil {
		logger.Debug("resource calendar page failed", "error", err)
	}

	s.setState(StateAuthenticated)
	logger.Info("portal login succeeded", "user", s.cfg.UserID)
	return nil
}

// EnsureAuthenticated opens and logs in as needed.
func (s *Session) EnsureAuthenticated(ctx context.Context) error {
	switch s.State() {
	case StateAuthenticated:
		return nil
	case StateClosed:
		if err := s.Open(); err != nil && !errors.Is(err, ErrInvalidState) {
			return err
		}
	}
	return s.Login(ctx)
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		s.state = st
	}
}

func (s *Session) httpClient() (*http.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, fmt.Errorf("%w: session closed", ErrInvalidState)
	}
	return s.client, nil
}

func (s *Session) requireAuthenticated() error {
	if st := s.State(); st != StateAuthenticated {
		return fmt.Errorf("%w (state %s)", ErrNotAuthenticated, st)
	}
	return nil
}

// expire moves an authenticated session back to open after the portal
// answered with its login page instead of data.
func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticated {
		s.state = StateOpen
		logger.Warn("portal session expired")
	}
}

// UserID returns the configured portal user.
func (s *Session) UserID() string {
	return s.cfg.UserID
}
