package constants

import "time"

// BookingStatus is the outcome recorded for a booking attempt
type BookingStatus string

// BookingSource identifies which surface started a booking attempt
type BookingSource string

const (
	AppName           = "mr"
	DefaultConfigPath = "~/.config/mr/mr.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay bounds every time-of-day value: [0, MinutesPerDay)
	MinutesPerDay = 24 * 60

	// Booking duration bounds, in minutes
	MinBookingMin  = 30
	MaxBookingMin  = 8 * 60
	BookingStepMin = 30

	// Bot constants
	BotLockfileName     = "mr-bot.lock"
	SessionKeepAlive    = 30 * time.Minute
	SlackMessageLimit   = 500
	AssistantTimeout    = 60 * time.Second
	PortalRequestTimeout = 30 * time.Second

	// Calendar reminders, in minutes before the event
	ReminderPopupMin = 10
	ReminderEmailMin = 30

	// Booking statuses
	BookingStatusBooked   BookingStatus = "booked"
	BookingStatusConflict BookingStatus = "conflict"
	BookingStatusRejected BookingStatus = "rejected"
	BookingStatusFailed   BookingStatus = "failed"

	// Booking sources
	BookingSourceCLI BookingSource = "cli"
	BookingSourceBot BookingSource = "bot"
)
