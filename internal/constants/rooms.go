package constants

// Location is the building every bookable room belongs to
const Location = "가산빌딩"

// RoomSpec describes a bookable room and its static portal resource id
type RoomSpec struct {
	Name   string
	Floor  string
	ResSeq int
}

// DefaultRooms is the target room allowlist, in display order. ResSeq values
// are the fallback ids used when the portal's resource tree is unavailable.
var DefaultRooms = []RoomSpec{
	{Name: "R2.1", Floor: "2F", ResSeq: 100},
	{Name: "R2.2", Floor: "2F", ResSeq: 101},
	{Name: "R3.1", Floor: "3F", ResSeq: 102},
	{Name: "R3.2", Floor: "3F", ResSeq: 103},
	{Name: "R3.3", Floor: "3F", ResSeq: 104},
	{Name: "R3.5", Floor: "3F", ResSeq: 106},
}

// RoomNames returns the names of DefaultRooms in order
func RoomNames() []string {
	names := make([]string, 0, len(DefaultRooms))
	for _, r := range DefaultRooms {
		names = append(names, r.Name)
	}
	return names
}
