package rentalrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

// GameLock is the slice of a game row read under FOR UPDATE.
type GameLock struct {
	ID                  int64
	Available           bool
	AllowOriginalRental bool
}

// CopyLock is the slice of a copy row read under FOR UPDATE.
type CopyLock struct {
	ID        int64
	GameID    int64
	Available bool
}

type UserRentalRow struct {
	Rental    model.Rental `json:"rental"`
	GameTitle string       `json:"game_title"`
	GameCover *string      `json:"game_cover,omitempty"`
	CopyCode  *string      `json:"copy_code,omitempty"`
	CopyNum   *int         `json:"copy_number,omitempty"`
}

type AdminRow struct {
	Rental    model.Rental `json:"rental"`
	UserName  string       `json:"user_name"`
	UserEmail string       `json:"user_email"`
	UserPhone *string      `json:"user_phone,omitempty"`
	GameTitle string       `json:"game_title"`
	GamePrice float64      `json:"game_price"`
	CopyCode  *string      `json:"copy_code,omitempty"`
}

// AdminFilter narrows the privileged rental listing.
type AdminFilter struct {
	Status  model.RentalStatus // empty = all
	Query   string
	Overdue bool
}

type Repo interface {
	GetGameForUpdate(ctx context.Context, tx *sql.Tx, gameID int64) (*GameLock, error)
	GetCopyForUpdate(ctx context.Context, tx *sql.Tx, copyID int64) (*CopyLock, error)
	CountCopies(ctx context.Context, tx *sql.Tx, gameID int64) (int64, error)
	SetCopyAvailable(ctx context.Context, tx *sql.Tx, copyID int64, available bool) error
	SetGameAvailable(ctx context.Context, tx *sql.Tx, gameID int64, available bool) error

	Insert(ctx context.Context, tx *sql.Tx, userID, gameID int64, copyID *int64, endDate time.Time) (*model.Rental, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)
	SetStatus(ctx context.Context, tx *sql.Tx, rentalID int64, status model.RentalStatus) error

	ListByUser(ctx context.Context, userID int64) ([]UserRentalRow, error)
	AdminList(ctx context.Context, f AdminFilter) ([]AdminRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetGameForUpdate(ctx context.Context, tx *sql.Tx, gameID int64) (*GameLock, error) {
	g := &GameLock{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, available, allow_original_rental
		FROM games
		WHERE id = $1
		FOR UPDATE`, gameID).Scan(&g.ID, &g.Available, &g.AllowOriginalRental)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repo) GetCopyForUpdate(ctx context.Context, tx *sql.Tx, copyID int64) (*CopyLock, error) {
	c := &CopyLock{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, game_id, available
		FROM game_copies
		WHERE id = $1
		FOR UPDATE`, copyID).Scan(&c.ID, &c.GameID, &c.Available)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) CountCopies(ctx context.Context, tx *sql.Tx, gameID int64) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_copies WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

func (r *repo) SetCopyAvailable(ctx context.Context, tx *sql.Tx, copyID int64, available bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE game_copies SET available = $2 WHERE id = $1`, copyID, available)
	return err
}

func (r *repo) SetGameAvailable(ctx context.Context, tx *sql.Tx, gameID int64, available bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE games SET available = $2 WHERE id = $1`, gameID, available)
	return err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, userID, gameID int64, copyID *int64, endDate time.Time) (*model.Rental, error) {
	rt := &model.Rental{
		UserID:  userID,
		GameID:  gameID,
		CopyID:  copyID,
		Status:  model.RentalPending,
		EndDate: endDate,
	}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO rentals (user_id, game_id, copy_id, status, end_date)
		VALUES ($1,$2,$3,'PENDING',$4)
		RETURNING id, start_date`,
		userID, gameID, copyID, endDate,
	).Scan(&rt.ID, &rt.StartDate)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	rt := &model.Rental{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, game_id, copy_id, status, start_date, end_date
		FROM rentals
		WHERE id = $1
		FOR UPDATE`, rentalID,
	).Scan(&rt.ID, &rt.UserID, &rt.GameID, &rt.CopyID, &rt.Status, &rt.StartDate, &rt.EndDate)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, rentalID int64, status model.RentalStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE rentals SET status = $2 WHERE id = $1`, rentalID, status)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]UserRentalRow, error) {
	const q = `
		SELECT r.id, r.user_id, r.game_id, r.copy_id, r.status, r.start_date, r.end_date,
		       g.title, g.cover, c.code, c.number
		FROM rentals r
		JOIN games g ON g.id = r.game_id
		LEFT JOIN game_copies c ON c.id = r.copy_id
		WHERE r.user_id = $1
		ORDER BY r.start_date DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserRentalRow
	for rows.Next() {
		var h UserRentalRow
		if err := rows.Scan(
			&h.Rental.ID, &h.Rental.UserID, &h.Rental.GameID, &h.Rental.CopyID,
			&h.Rental.Status, &h.Rental.StartDate, &h.Rental.EndDate,
			&h.GameTitle, &h.GameCover, &h.CopyCode, &h.CopyNum,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) AdminList(ctx context.Context, f AdminFilter) ([]AdminRow, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "r.status = "+arg(string(f.Status)))
	}
	if f.Overdue {
		conds = append(conds, "r.end_date < NOW()")
		conds = append(conds, "r.status IN ('PENDING','ACTIVE')")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + q + "%")
		conds = append(conds, `(g.title ILIKE `+p+
			` OR u.name ILIKE `+p+
			` OR u.email ILIKE `+p+
			` OR c.code ILIKE `+p+`)`)
	}

	q := `
		SELECT r.id, r.user_id, r.game_id, r.copy_id, r.status, r.start_date, r.end_date,
		       u.name, u.email, u.phone, g.title, g.price, c.code
		FROM rentals r
		JOIN users u ON u.id = r.user_id
		JOIN games g ON g.id = r.game_id
		LEFT JOIN game_copies c ON c.id = r.copy_id`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.start_date DESC, r.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminRow
	for rows.Next() {
		var h AdminRow
		if err := rows.Scan(
			&h.Rental.ID, &h.Rental.UserID, &h.Rental.GameID, &h.Rental.CopyID,
			&h.Rental.Status, &h.Rental.StartDate, &h.Rental.EndDate,
			&h.UserName, &h.UserEmail, &h.UserPhone, &h.GameTitle, &h.GamePrice, &h.CopyCode,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
