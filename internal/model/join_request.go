package model

import "time"

// Join request statuses.  A request is created PENDING and terminated by
// an admin decision; APPROVED and REJECTED are both terminal.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// JoinRequest is a user's request for admin approval to participate in a
// game before seat selection is allowed.  There is at most one request
// per (game, user) pair, enforced by a unique key.
//
// Fields:
//  ID        – primary key identifier.
//  GameID    – game the user wants to join.
//  UserID    – requesting user.
//  Status    – PENDING, APPROVED or REJECTED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp (decision time once terminal).
type JoinRequest struct {
	ID        uint64    // join_requests.id
	GameID    uint64    // join_requests.game_id
	UserID    uint64    // join_requests.user_id
	Status    string    // join_requests.status
	CreatedAt time.Time // join_requests.created_at
	UpdatedAt time.Time // join_requests.updated_at
}
