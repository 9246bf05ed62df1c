package model

import "time"

// Seat is one occupiable unit within a game.  Seats are created in bulk
// when the game is created and never added or removed afterwards; only
// occupancy and winner columns change.  Occupancy is set exclusively by
// the booking path — the server is the sole arbiter of who holds a seat.
//
// Fields:
//  ID               – primary key identifier.
//  GameID           – game this seat belongs to.
//  SeatNumber       – 1-based position, unique per game.
//  IsPaid           – paid/free classification; immutable after creation.
//  Price            – non-negative price; always 0 for free seats.
//  Gift             – optional gift attached to the seat.
//  IsOccupied       – whether the seat is booked.
//  UserID           – occupant, null while free.
//  IsWinner         – set by admin winner declaration after game end.
//  DeclaredWinnerAt – when the seat was declared a winner (nullable).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Seat struct {
	ID               uint64     // seats.id
	GameID           uint64     // seats.game_id
	SeatNumber       int        // seats.seat_number
	IsPaid           bool       // seats.is_paid
	Price            int        // seats.price
	Gift             string     // seats.gift
	IsOccupied       bool       // seats.is_occupied
	UserID           *uint64    // seats.user_id (nullable)
	IsWinner         bool       // seats.is_winner
	DeclaredWinnerAt *time.Time // seats.declared_winner_at (nullable)
	CreatedAt        time.Time  // seats.created_at
	UpdatedAt        time.Time  // seats.updated_at
}
