package model

import "time"

// Game statuses.  A game is created ACTIVE and transitions to ENDED once,
// either by the admin or when every seat is occupied.  There is no way back.
const (
	GameStatusActive = "ACTIVE"
	GameStatusEnded  = "ENDED"
)

// Game is the aggregate root for a seat lottery: a fixed seat inventory
// with a free/paid split and a lifecycle.  This struct corresponds to a
// row in the `games` table; the seats live in the `seats` table.
//
// Fields:
//  ID             – primary key identifier.
//  GameName       – required display name.
//  TotalSeats     – number of seats, 1..100.
//  FreeSeats      – count of free seats; FreeSeats + PaidSeats == TotalSeats.
//  PaidSeats      – count of paid seats.
//  Status         – ACTIVE or ENDED.
//  Description    – optional rich-text description (inert pass-through).
//  AdditionalInfo – optional extra text shown to players.
//  UniversalGift  – optional gift attached to the whole game.
//  ImageURL       – optional promo image path.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
//  EndedAt        – when the game ended (null while active).
type Game struct {
	ID             uint64     // games.id
	GameName       string     // games.game_name
	TotalSeats     int        // games.total_seats
	FreeSeats      int        // games.free_seats
	PaidSeats      int        // games.paid_seats
	Status         string     // games.status
	Description    *string    // games.description (nullable)
	AdditionalInfo *string    // games.additional_info (nullable)
	UniversalGift  *string    // games.universal_gift (nullable)
	ImageURL       *string    // games.image_url (nullable)
	CreatedAt      time.Time  // games.created_at
	UpdatedAt      time.Time  // games.updated_at
	EndedAt        *time.Time // games.ended_at (nullable)
}
