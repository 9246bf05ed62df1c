// Package game implements the seat inventory, the admin configuration
// reducer and the seat selection state machine for lottery games.  All of it
// is pure and synchronous: callers mutate a value in response to one input
// event at a time and the package keeps the seat counts, paid flags and
// prices mutually consistent.
package game

// MaxSeats is the hard cap on seats per game.  The cap is enforced both
// while editing and at final validation.
const MaxSeats = 100

// Unset marks a numeric form field the admin has not filled in yet.  It is
// distinct from zero: a paid seat priced 0 is valid, a paid seat with an
// Unset price is not.
const Unset = -1

// Seat is one occupiable unit inside a game's inventory.  SeatNumber is
// 1-based and unique within the game.  Price is Unset until assigned for
// paid seats and always 0 for free seats.
type Seat struct {
	SeatNumber int    `json:"seatNumber"`
	Price      int    `json:"price"`
	Gift       string `json:"gift"`
	IsPaid     bool   `json:"isPaid"`
}

// Regenerate builds a fresh inventory of n seats numbered 1..n, all free and
// unpriced.  Changing the seat count invalidates any prior per-seat
// configuration, so callers replace their whole slice with the result.
// Out-of-range counts yield an empty inventory.
func Regenerate(n int) []Seat {
	if n <= 0 || n > MaxSeats {
		return nil
	}
	seats := make([]Seat, n)
	for i := range seats {
		seats[i] = Seat{SeatNumber: i + 1, Price: 0, Gift: "", IsPaid: false}
	}
	return seats
}
