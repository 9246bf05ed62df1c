package game

import "errors"

// SeatStatus is the status of a seat as observed by one viewer.  The
// backend's occupancy is authoritative; "selected" exists only inside a
// Selection and never survives a sync that contradicts it.
type SeatStatus string

const (
	StatusAvailable   SeatStatus = "available"
	StatusSelected    SeatStatus = "selected"
	StatusBooked      SeatStatus = "booked"
	StatusUnavailable SeatStatus = "unavailable"
	StatusWinner      SeatStatus = "winner"
)

// SeatState is the server truth for one seat as fetched from storage.
type SeatState struct {
	SeatNumber int
	Price      int
	Occupied   bool
	OccupiedBy uint64 // 0 when the seat is free
	Winner     bool
}

var (
	// ErrSeatBooked is returned when the viewer tries to select a seat
	// that is already occupied.
	ErrSeatBooked = errors.New("seat already booked")
	// ErrAlreadyHolding is returned when the viewer already holds a booked
	// seat in this game; double-booking is refused at this layer too.
	ErrAlreadyHolding = errors.New("viewer already holds a seat in this game")
)

// DeriveStatus computes the status of a single seat for a viewer.  Winner
// wins over booked; a free seat is unavailable to a viewer who already holds
// a booking in the game.  viewerHasBooking must reflect the whole game, not
// just this seat.
func DeriveStatus(st SeatState, viewerHasBooking bool) SeatStatus {
	switch {
	case st.Winner:
		return StatusWinner
	case st.Occupied:
		return StatusBooked
	case viewerHasBooking:
		return StatusUnavailable
	default:
		return StatusAvailable
	}
}

// SeatView is one seat with its viewer-relative status.
type SeatView struct {
	SeatNumber int        `json:"seatNumber"`
	Price      int        `json:"price"`
	Status     SeatStatus `json:"status"`
}

// Selection tracks a viewer's ephemeral seat choice for a single game.  It
// holds at most one selected seat, refuses selection while the viewer has a
// confirmed booking, and yields entirely to server truth on Sync: if a
// refresh reveals the chosen seat was taken in the interim, the selection
// silently reverts and the viewer must pick again.
type Selection struct {
	viewerID uint64
	seats    []SeatView
	states   []SeatState
	selected int // seat number, 0 = none
	holding  bool
}

// NewSelection creates an empty selection for the given viewer.
func NewSelection(viewerID uint64) *Selection {
	return &Selection{viewerID: viewerID}
}

// Sync replaces the local view with fetched server truth.  The current
// selection is kept only when the seat is still free and the viewer holds no
// booking; any conflict is resolved in the server's favor with no prompt.
func (s *Selection) Sync(states []SeatState) {
	s.states = make([]SeatState, len(states))
	copy(s.states, states)

	s.holding = false
	for _, st := range states {
		if st.Occupied && st.OccupiedBy == s.viewerID {
			s.holding = true
			break
		}
	}

	keep := false
	if s.selected != 0 && !s.holding {
		for _, st := range states {
			if st.SeatNumber == s.selected && !st.Occupied {
				keep = true
				break
			}
		}
	}
	if !keep {
		s.selected = 0
	}
	s.rebuild()
}

// Toggle handles a click on a seat.  Clicking the selected seat deselects
// it; clicking another free seat moves the selection.  Booked seats and
// viewers that already hold a booking are refused.
func (s *Selection) Toggle(seatNumber int) error {
	var st *SeatState
	for i := range s.states {
		if s.states[i].SeatNumber == seatNumber {
			st = &s.states[i]
			break
		}
	}
	if st == nil {
		return ErrNoSuchSeat
	}
	if seatNumber == s.selected {
		s.selected = 0
		s.rebuild()
		return nil
	}
	if st.Occupied {
		return ErrSeatBooked
	}
	if s.holding {
		return ErrAlreadyHolding
	}
	s.selected = seatNumber
	s.rebuild()
	return nil
}

// Clear discards the selection, as navigation away does.
func (s *Selection) Clear() {
	s.selected = 0
	s.rebuild()
}

// Selected returns the chosen seat number, if any.
func (s *Selection) Selected() (int, bool) {
	return s.selected, s.selected != 0
}

// Seats returns the current per-seat view in seat-number order.
func (s *Selection) Seats() []SeatView {
	return s.seats
}

func (s *Selection) rebuild() {
	s.seats = make([]SeatView, len(s.states))
	for i, st := range s.states {
		status := DeriveStatus(st, s.holding)
		if st.SeatNumber == s.selected && status == StatusAvailable {
			status = StatusSelected
		}
		s.seats[i] = SeatView{SeatNumber: st.SeatNumber, Price: st.Price, Status: status}
	}
}
