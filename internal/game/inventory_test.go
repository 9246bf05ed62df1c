package game

import "testing"

func TestRegenerateProducesContiguousSeats(t *testing.T) {
	for n := 1; n <= MaxSeats; n++ {
		seats := Regenerate(n)
		if len(seats) != n {
			t.Fatalf("Regenerate(%d): want %d seats, got %d", n, n, len(seats))
		}
		for i, s := range seats {
			if s.SeatNumber != i+1 {
				t.Fatalf("Regenerate(%d): seat at index %d has number %d", n, i, s.SeatNumber)
			}
			if s.IsPaid || s.Price != 0 || s.Gift != "" {
				t.Fatalf("Regenerate(%d): seat %d not reset: %+v", n, s.SeatNumber, s)
			}
		}
	}
}

func TestRegenerateRejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, MaxSeats + 1, 1000} {
		if seats := Regenerate(n); seats != nil {
			t.Fatalf("Regenerate(%d): want nil, got %d seats", n, len(seats))
		}
	}
}
