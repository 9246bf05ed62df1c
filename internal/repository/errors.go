// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers distinguish failure
// scenarios without inspecting driver errors: for example ErrSeatTaken
// signals that a booking lost the race for a seat, while ErrConflict
// signals that an operation cannot proceed because of existing state
// (e.g. deciding a join request that was already decided).
package repository

import "errors"

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as ending a game that has already ended or
// re-deciding a terminal join request.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is returned when a booking attempt finds the seat already
// occupied.  The conditional UPDATE guarantees at most one winner of the
// race; losers receive this error and the client re-fetches.
var ErrSeatTaken = errors.New("seat already booked")
