package models

import "github.com/codemon-ai/make-meeting-room/internal/constants"

// Settings holds the persisted application settings.
type Settings struct {
	WorkStart       string
	WorkEnd         string
	SlotIntervalMin int
	Timezone        string
	GroupwareUserID string
}

// Subscriber is the portal identity attached to a reservation submission.
type Subscriber struct {
	UserType string
	OrgType  string
	GroupSeq string
	CompSeq  string
	DeptSeq  string
	EmpSeq   string
	EmpName  string
	LoginID  string
	DeptName string
	DutyCode string
	Path     string
	SuperKey string
}

// SubmitRequest is a reservation as sent to the portal.
type SubmitRequest struct {
	Room        Room
	Date        string
	Interval    Interval
	Title       string
	Description string
}

// SubmitResult is the portal's answer to a submission.
type SubmitResult struct {
	Accepted bool
	Message  string
}

// Booking is a history record of one booking attempt.
type Booking struct {
	ID        string
	Room      string
	Date      string
	Start     string
	End       string
	Title     string
	Requester string
	Source    constants.BookingSource
	Status    constants.BookingStatus
	Message   string
	EventLink string
	CreatedAt string
}
