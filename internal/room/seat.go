package room

import "github.com/oklog/ulid/v2"

type Seat int

const (
	Spectator Seat = 0
	Seat1     Seat = 1
	Seat2     Seat = 2
)

// Active is true for the two playing seats.
func (s Seat) Active() bool {
	return s == Seat1 || s == Seat2
}

// seatMap assigns the lowest free playing seat to each new connection.
type seatMap struct {
	holders [3]string
}

func (m *seatMap) allocate(connID string) Seat {
	for _, seat := range []Seat{Seat1, Seat2} {
		if m.holders[seat] == "" {
			m.holders[seat] = connID
			return seat
		}
	}
	return Spectator
}

func (m *seatMap) release(seat Seat, connID string) {
	if seat.Active() && m.holders[seat] == connID {
		m.holders[seat] = ""
	}
}

// occupied lists taken seats in ascending order.
func (m *seatMap) occupied() []int {
	out := make([]int, 0, 2)
	for _, seat := range []Seat{Seat1, Seat2} {
		if m.holders[seat] != "" {
			out = append(out, int(seat))
		}
	}
	return out
}

// NewConnID returns a sortable unique connection identity.
func NewConnID() string {
	return ulid.Make().String()
}
