package repository // repository defines data access for join requests

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/seatlotto/seat-lottery/internal/model"
)

// ErrRequestNotFound is returned when a join request lookup yields no rows.
var ErrRequestNotFound = errors.New("join request not found")

// ErrDuplicateRequest is returned when a user already has a request for the
// game; there is at most one per (game, user) pair.
var ErrDuplicateRequest = errors.New("request already exists for this game")

// RequestRepo provides methods to work with join requests.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo constructs a RequestRepo with the given DB handle.
func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

// Create inserts a PENDING request and returns its ID.
func (r *RequestRepo) Create(ctx context.Context, gameID, userID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO join_requests (game_id, user_id, status) VALUES (?,?,?)",
		gameID, userID, model.RequestStatusPending)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateRequest
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID retrieves a single request.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	err := r.db.QueryRowContext(ctx,
		"SELECT id, game_id, user_id, status, created_at, updated_at FROM join_requests WHERE id = ?",
		id).Scan(&jr.ID, &jr.GameID, &jr.UserID, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &jr, nil
}

// Decide moves a PENDING request to APPROVED or REJECTED.  Deciding an
// already-terminal request returns ErrConflict; both outcomes are final.
func (r *RequestRepo) Decide(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE join_requests SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
		status, id, model.RequestStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// RequestRow is a join request with the requester's username, as shown on
// the admin's manage-requests screen.
type RequestRow struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// ListByGame returns the requests of a game, optionally filtered by status
// (empty status means all), oldest first.
func (r *RequestRepo) ListByGame(ctx context.Context, gameID uint64, status string) ([]RequestRow, error) {
	q := `SELECT jr.id, jr.user_id, u.username, jr.status
	      FROM join_requests jr
	      JOIN users u ON u.id = jr.user_id
	      WHERE jr.game_id = ?`
	args := []interface{}{gameID}
	if status != "" {
		q += " AND jr.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY jr.created_at"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RequestRow
	for rows.Next() {
		var row RequestRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Username, &row.Status); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// StatusFor returns the user's request status for a game, "" when the user
// never requested to join.
func (r *RequestRepo) StatusFor(ctx context.Context, gameID, userID uint64) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM join_requests WHERE game_id=? AND user_id=? LIMIT 1",
		gameID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return status, err
}

// IsApproved reports whether the user holds an APPROVED request for the
// game.  Seat selection requires this.
func (r *RequestRepo) IsApproved(ctx context.Context, gameID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM join_requests WHERE game_id=? AND user_id=? AND status=? LIMIT 1",
		gameID, userID, model.RequestStatusApproved).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
