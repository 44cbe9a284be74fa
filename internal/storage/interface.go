package storage

import (
	"strings"

	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/storage/postgres"
	"github.com/codemon-ai/make-meeting-room/internal/storage/sqlite"
)

// ErrNotInitialized is returned by Load when no database exists yet.
var ErrNotInitialized = sqlite.ErrNotInitialized

// Provider persists settings and the booking history. Reservation data is
// never stored: every availability query goes to the portal.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Booking history
	AddBooking(models.Booking) error
	GetBooking(id string) (models.Booking, error)
	// GetBookings returns bookings whose date lies in [fromDate, toDate],
	// newest first. Empty bounds are open.
	GetBookings(fromDate, toDate string, limit int) ([]models.Booking, error)

	GetConfigPath() string
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// IsPostgres reports whether config is a PostgreSQL connection string.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// New picks the backend from the config value: a PostgreSQL connection
// string or a SQLite file path.
func New(config string) (Provider, error) {
	if IsPostgres(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	}
	return sqlite.NewStore(config), nil
}

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() models.Settings {
	return sqlite.DefaultSettings()
}
