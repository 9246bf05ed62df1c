package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/seatlotto/seat-lottery/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, game_id, seat_number, is_paid, price, gift,
	is_occupied, user_id, is_winner, declared_winner_at, created_at, updated_at`

// CreateBulkTx inserts the full seat inventory of a game in a single
// statement inside the given transaction.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (game_id, seat_number, is_paid, price, gift) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.GameID, s.SeatNumber, s.IsPaid, s.Price, s.Gift)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByGame retrieves all seats of a game ordered by seat_number.
func (r *SeatRepo) ListByGame(ctx context.Context, gameID uint64) ([]model.Seat, error) {
	const q = "SELECT " + seatColumns + " FROM seats WHERE game_id = ? ORDER BY seat_number"
	rows, err := r.db.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(
			&s.ID, &s.GameID, &s.SeatNumber, &s.IsPaid, &s.Price, &s.Gift,
			&s.IsOccupied, &s.UserID, &s.IsWinner, &s.DeclaredWinnerAt,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByNumber retrieves one seat of a game by its seat number.
func (r *SeatRepo) GetByNumber(ctx context.Context, gameID uint64, seatNumber int) (*model.Seat, error) {
	const q = "SELECT " + seatColumns + " FROM seats WHERE game_id = ? AND seat_number = ?"
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, gameID, seatNumber).
		Scan(&s.ID, &s.GameID, &s.SeatNumber, &s.IsPaid, &s.Price, &s.Gift,
			&s.IsOccupied, &s.UserID, &s.IsWinner, &s.DeclaredWinnerAt,
			&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UserSeat returns the seat the user occupies in the game, or
// ErrSeatNotFound when the user holds no booking there.  Callers use it to
// refuse double-booking.
func (r *SeatRepo) UserSeat(ctx context.Context, gameID, userID uint64) (*model.Seat, error) {
	const q = "SELECT " + seatColumns + " FROM seats WHERE game_id = ? AND user_id = ? AND is_occupied = 1 LIMIT 1"
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, gameID, userID).
		Scan(&s.ID, &s.GameID, &s.SeatNumber, &s.IsPaid, &s.Price, &s.Gift,
			&s.IsOccupied, &s.UserID, &s.IsWinner, &s.DeclaredWinnerAt,
			&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// BookTx marks a seat occupied by userID inside the given transaction.
// The is_occupied = 0 guard makes the update the single arbiter of the
// race: whoever's UPDATE lands first wins, everyone else gets ErrSeatTaken.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, gameID uint64, seatNumber int, userID uint64) error {
	const q = `UPDATE seats
	           SET is_occupied = 1, user_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE game_id = ? AND seat_number = ? AND is_occupied = 0`
	res, err := tx.ExecContext(ctx, q, userID, gameID, seatNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing seat from a lost race.
		var id uint64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM seats WHERE game_id = ? AND seat_number = ?",
			gameID, seatNumber).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSeatNotFound
		}
		if err != nil {
			return err
		}
		return ErrSeatTaken
	}
	return nil
}

// CountFree returns how many seats of the game remain unoccupied.  Used to
// auto-end a game once the last seat is booked.
func (r *SeatRepo) CountFreeTx(ctx context.Context, tx *sql.Tx, gameID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM seats WHERE game_id = ? AND is_occupied = 0", gameID).Scan(&n)
	return n, err
}

// FreeCounts returns the number of unoccupied seats per game, for the game
// list screens.  Games with every seat taken are absent from the map.
func (r *SeatRepo) FreeCounts(ctx context.Context) (map[uint64]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT game_id, COUNT(*) FROM seats WHERE is_occupied = 0 GROUP BY game_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uint64]int)
	for rows.Next() {
		var (
			id uint64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// DeclareWinners flags the given occupied seats of an ended game as
// winners.  Seats already declared keep their original declared_winner_at,
// so the batch is idempotent.  Returns the number of newly declared seats.
func (r *SeatRepo) DeclareWinners(ctx context.Context, gameID uint64, seatNumbers []int, at time.Time) (int, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	query := `UPDATE seats SET is_winner = 1, declared_winner_at = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE game_id = ? AND is_occupied = 1 AND is_winner = 0 AND seat_number IN (`
	args := []interface{}{at, gameID}
	for i, n := range seatNumbers {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, n)
	}
	query += ")"
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// WinnerRow is one leaderboard entry: a winning seat joined with its
// occupant's username.
type WinnerRow struct {
	SeatID           uint64    `json:"seatId"`
	SeatNumber       int       `json:"seatNumber"`
	Username         string    `json:"username"`
	Gift             string    `json:"gift"`
	DeclaredWinnerAt time.Time `json:"declaredWinnerAt"`
}

// ListWinners returns the declared winners of a game in declaration order.
func (r *SeatRepo) ListWinners(ctx context.Context, gameID uint64) ([]WinnerRow, error) {
	const q = `SELECT s.id, s.seat_number, u.username, s.gift, s.declared_winner_at
	           FROM seats s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.game_id = ? AND s.is_winner = 1
	           ORDER BY s.declared_winner_at, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WinnerRow
	for rows.Next() {
		var w WinnerRow
		if err := rows.Scan(&w.SeatID, &w.SeatNumber, &w.Username, &w.Gift, &w.DeclaredWinnerAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OccupantName resolves the username occupying a seat, "" when free.
// Used by the admin seat monitor.
func (r *SeatRepo) OccupantNames(ctx context.Context, gameID uint64) (map[int]string, error) {
	const q = `SELECT s.seat_number, u.username
	           FROM seats s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.game_id = ? AND s.is_occupied = 1`
	rows, err := r.db.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var (
			n    int
			name string
		)
		if err := rows.Scan(&n, &name); err != nil {
			return nil, err
		}
		names[n] = name
	}
	return names, rows.Err()
}
