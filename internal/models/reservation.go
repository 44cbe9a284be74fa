package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number, boolean or null and keeps its
// textual form. The portal is inconsistent about how it encodes ids and flags.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

// Int parses the value as an integer.
func (f FlexString) Int() (int, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RawReservation is one reservation record as the portal returns it. Fields
// overlap: different endpoints fill different subsets.
type RawReservation struct {
	ResSeq FlexString `json:"resSeq"`

	ResName string `json:"resName"`
	ResNm   string `json:"resNm"`
	Title   string `json:"title"`
	ReqText string `json:"reqText"`

	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	FromDate     string `json:"fromDate"`
	FromTime     string `json:"fromTime"`
	ToDate       string `json:"toDate"`
	ToTime       string `json:"toTime"`
	Start        string `json:"start"`
	End          string `json:"end"`
	ResStartDate string `json:"resStartDate"`
	ResEndDate   string `json:"resEndDate"`

	AllDay   FlexString `json:"allDay"`
	AllDayYn string     `json:"allDayYn"`
	AlldayYn string     `json:"alldayYn"`

	UseEmpNm string     `json:"useEmpNm"`
	EmpName  string     `json:"empName"`
	RegEmpNm string     `json:"regEmpNm"`
	UseEmpID FlexString `json:"useEmpId"`
	RegEmpID FlexString `json:"regEmpId"`
}

// Reservation is the canonical, validated form of a reservation.
type Reservation struct {
	ResSeq     int
	Room       string
	Date       string
	Start      Clock
	End        Clock
	Reserver   string
	ReserverID string
	Title      string
}

// Interval returns the reservation's time range.
func (r Reservation) Interval() Interval {
	return Interval{Start: r.Start, End: r.End}
}

// Room is a bookable meeting room.
type Room struct {
	Name     string
	Floor    string
	Location string
	ResSeq   int
}

// Label renders "R3.1 (3F)".
func (r Room) Label() string {
	if r.Floor == "" {
		return r.Name
	}
	return r.Name + " (" + r.Floor + ")"
}

// RoomAvailability is a room's reservations and derived gaps for one date.
type RoomAvailability struct {
	Room         Room
	Date         string
	Reservations []Reservation
	Gaps         []Interval
}

// ResourceNode is one node of the portal's resource tree.
type ResourceNode struct {
	ResSeq   FlexString     `json:"resSeq"`
	ResNm    string         `json:"resNm"`
	Children []ResourceNode `json:"children"`
}
