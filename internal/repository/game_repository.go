package repository // repository defines data access for games

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/seatlotto/seat-lottery/internal/model"
)

// ErrGameNotFound is returned when a game lookup yields no rows.
var ErrGameNotFound = errors.New("game not found")

// GameRepo provides methods to work with games in the database.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo constructs a GameRepo with the given DB handle.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span games and seats.
func (r *GameRepo) DB() *sql.DB { return r.db }

const gameColumns = `id, game_name, total_seats, free_seats, paid_seats, status,
	description, additional_info, universal_gift, image_url, created_at, updated_at, ended_at`

// CreateTx inserts a game row within an existing transaction and populates
// the generated ID.  Seats are inserted separately by SeatRepo.CreateBulkTx
// in the same transaction so a half-created game can never be observed.
func (r *GameRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Game) error {
	const q = `INSERT INTO games
	           (game_name, total_seats, free_seats, paid_seats, status, description, additional_info, universal_gift, image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		g.GameName, g.TotalSeats, g.FreeSeats, g.PaidSeats, g.Status,
		g.Description, g.AdditionalInfo, g.UniversalGift, g.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID retrieves a single game.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	var g model.Game
	err := r.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE id = ?", id).
		Scan(&g.ID, &g.GameName, &g.TotalSeats, &g.FreeSeats, &g.PaidSeats, &g.Status,
			&g.Description, &g.AdditionalInfo, &g.UniversalGift, &g.ImageURL,
			&g.CreatedAt, &g.UpdatedAt, &g.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByStatus returns games filtered by status, newest first.
func (r *GameRepo) ListByStatus(ctx context.Context, status string) ([]model.Game, error) {
	return r.list(ctx, "SELECT "+gameColumns+" FROM games WHERE status = ? ORDER BY created_at DESC", status)
}

// ListAll returns every game, newest first.  Admin dashboard only.
func (r *GameRepo) ListAll(ctx context.Context) ([]model.Game, error) {
	return r.list(ctx, "SELECT " + gameColumns + " FROM games ORDER BY created_at DESC")
}

func (r *GameRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.GameName, &g.TotalSeats, &g.FreeSeats, &g.PaidSeats, &g.Status,
			&g.Description, &g.AdditionalInfo, &g.UniversalGift, &g.ImageURL,
			&g.CreatedAt, &g.UpdatedAt, &g.EndedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// EndTx is End inside an existing transaction, without the conflict probe.
// The booking path uses it to auto-end a game atomically with the booking
// of its last free seat.
func (r *GameRepo) EndTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE games SET status=?, ended_at=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
		model.GameStatusEnded, at, id, model.GameStatusActive)
	return err
}

// End transitions an active game to ENDED and stamps ended_at.  Returns
// ErrConflict when the game has already ended and ErrGameNotFound when no
// such game exists.
func (r *GameRepo) End(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE games SET status=?, ended_at=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
		model.GameStatusEnded, at, id, model.GameStatusActive)
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
