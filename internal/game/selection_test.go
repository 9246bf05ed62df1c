package game

import (
	"errors"
	"testing"
)

// states builds a five-seat game; occupied maps seat number to occupant id.
func states(occupied map[int]uint64) []SeatState {
	out := make([]SeatState, 5)
	for i := range out {
		n := i + 1
		out[i] = SeatState{SeatNumber: n, Price: 100}
		if uid, ok := occupied[n]; ok {
			out[i].Occupied = true
			out[i].OccupiedBy = uid
		}
	}
	return out
}

func statusOf(t *testing.T, s *Selection, seatNumber int) SeatStatus {
	t.Helper()
	for _, v := range s.Seats() {
		if v.SeatNumber == seatNumber {
			return v.Status
		}
	}
	t.Fatalf("seat %d not in view", seatNumber)
	return ""
}

func TestToggleSelectsAndDeselects(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(nil))

	if err := s.Toggle(3); err != nil {
		t.Fatalf("select: %v", err)
	}
	if n, ok := s.Selected(); !ok || n != 3 {
		t.Fatalf("selected: want 3, got %d (%v)", n, ok)
	}
	if got := statusOf(t, s, 3); got != StatusSelected {
		t.Fatalf("seat 3 status: want selected, got %s", got)
	}

	// Re-click deselects.
	if err := s.Toggle(3); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection not cleared by re-click")
	}

	// Selecting a different seat moves the selection.
	if err := s.Toggle(1); err != nil {
		t.Fatalf("select 1: %v", err)
	}
	if err := s.Toggle(2); err != nil {
		t.Fatalf("select 2: %v", err)
	}
	if n, _ := s.Selected(); n != 2 {
		t.Fatalf("selection did not move: %d", n)
	}
	if got := statusOf(t, s, 1); got != StatusAvailable {
		t.Fatalf("seat 1 after moving selection: want available, got %s", got)
	}
}

func TestToggleRefusesBookedSeat(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(map[int]uint64{2: 99}))

	if err := s.Toggle(2); !errors.Is(err, ErrSeatBooked) {
		t.Fatalf("want ErrSeatBooked, got %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("refused toggle left a selection")
	}
	if err := s.Toggle(42); !errors.Is(err, ErrNoSuchSeat) {
		t.Fatalf("want ErrNoSuchSeat, got %v", err)
	}
}

func TestViewerWithBookingCannotSelect(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(map[int]uint64{4: 7}))

	if err := s.Toggle(1); !errors.Is(err, ErrAlreadyHolding) {
		t.Fatalf("want ErrAlreadyHolding, got %v", err)
	}
	// Free seats render unavailable for a viewer who already holds one.
	if got := statusOf(t, s, 1); got != StatusUnavailable {
		t.Fatalf("seat 1: want unavailable, got %s", got)
	}
	if got := statusOf(t, s, 4); got != StatusBooked {
		t.Fatalf("own seat 4: want booked, got %s", got)
	}
}

func TestSyncRevertsSelectionLostToRace(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(nil))
	if err := s.Toggle(5); err != nil {
		t.Fatalf("select: %v", err)
	}

	// Another client books seat 5; the refresh wins with no prompt.
	s.Sync(states(map[int]uint64{5: 99}))
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection survived losing the race")
	}
	if got := statusOf(t, s, 5); got != StatusBooked {
		t.Fatalf("seat 5: want booked, got %s", got)
	}
}

func TestSyncKeepsSelectionWhenStillFree(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(nil))
	if err := s.Toggle(5); err != nil {
		t.Fatalf("select: %v", err)
	}

	s.Sync(states(map[int]uint64{1: 99}))
	if n, ok := s.Selected(); !ok || n != 5 {
		t.Fatalf("selection dropped although seat stayed free: %d (%v)", n, ok)
	}
}

func TestSyncDropsSelectionOnceViewerBooks(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(nil))
	if err := s.Toggle(5); err != nil {
		t.Fatalf("select: %v", err)
	}

	// The viewer's booking confirms: seat 5 now occupied by the viewer and
	// the local selection must clear.
	s.Sync(states(map[int]uint64{5: 7}))
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection survived booking confirmation")
	}
}

func TestDeriveStatusWinner(t *testing.T) {
	st := SeatState{SeatNumber: 1, Occupied: true, OccupiedBy: 3, Winner: true}
	if got := DeriveStatus(st, false); got != StatusWinner {
		t.Fatalf("want winner, got %s", got)
	}
	// Winner is terminal and outranks everything else.
	if got := DeriveStatus(st, true); got != StatusWinner {
		t.Fatalf("want winner even for holding viewer, got %s", got)
	}
}

func TestClearDiscardsSelection(t *testing.T) {
	s := NewSelection(7)
	s.Sync(states(nil))
	if err := s.Toggle(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.Clear()
	if _, ok := s.Selected(); ok {
		t.Fatalf("Clear left a selection")
	}
	if got := statusOf(t, s, 2); got != StatusAvailable {
		t.Fatalf("seat 2 after Clear: want available, got %s", got)
	}
}
