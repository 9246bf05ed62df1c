// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Queue names.  Both queues are declared durable by publisher and consumer.
const (
	SeatBookedQueue      = "seat.booked"
	WinnersDeclaredQueue = "winners.declared"
)

// SeatBookedEvent is published when a seat booking is confirmed.  It
// carries enough for downstream consumers (notification, analytics) to act
// without querying the primary database.
type SeatBookedEvent struct {
	GameID     uint64 `json:"game_id"`
	GameName   string `json:"game_name"`
	SeatNumber int    `json:"seat_number"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	Price      int    `json:"price"`
	TestMode   bool   `json:"test_mode"`
	BookedAt   string `json:"booked_at"`
	GameEnded  bool   `json:"game_ended"` // true when this booking filled the last seat
}

// WinnersDeclaredEvent is published after an admin declares winners on an
// ended game.  SeatNumbers lists only the newly declared seats.
type WinnersDeclaredEvent struct {
	GameID      uint64 `json:"game_id"`
	GameName    string `json:"game_name"`
	SeatNumbers []int  `json:"seat_numbers"`
	DeclaredBy  uint64 `json:"declared_by"`
	DeclaredAt  string `json:"declared_at"`
}
