package copyrepo

import (
	"context"
	"database/sql"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

type Repo interface {
	ListByGame(ctx context.Context, gameID int64) ([]model.GameCopy, error)
	ByID(ctx context.Context, copyID int64) (*model.GameCopy, error)
	GameExists(ctx context.Context, gameID int64) (bool, error)

	GameTitle(ctx context.Context, tx *sql.Tx, gameID int64) (string, error)
	MaxNumber(ctx context.Context, tx *sql.Tx, gameID int64) (int, error)
	Insert(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error

	Update(ctx context.Context, copyID int64, patch UpdatePatch) (*model.GameCopy, error)
	Delete(ctx context.Context, copyID int64) error
	CountRentals(ctx context.Context, copyID int64) (int64, error)
}

type UpdatePatch struct {
	Code      *string
	Condition *string
	Available *bool
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const copyCols = `id, game_id, number, code, condition, available, created_at`

func (r *repo) ListByGame(ctx context.Context, gameID int64) ([]model.GameCopy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+copyCols+`
		FROM game_copies
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameCopy
	for rows.Next() {
		var c model.GameCopy
		if err := rows.Scan(&c.ID, &c.GameID, &c.Number, &c.Code, &c.Condition, &c.Available, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, copyID int64) (*model.GameCopy, error) {
	c := &model.GameCopy{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+copyCols+` FROM game_copies WHERE id = $1`, copyID,
	).Scan(&c.ID, &c.GameID, &c.Number, &c.Code, &c.Condition, &c.Available, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) GameExists(ctx context.Context, gameID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, gameID).Scan(&ok)
	return ok, err
}

func (r *repo) GameTitle(ctx context.Context, tx *sql.Tx, gameID int64) (string, error) {
	var title string
	err := tx.QueryRowContext(ctx,
		`SELECT title FROM games WHERE id = $1`, gameID).Scan(&title)
	return title, err
}

func (r *repo) MaxNumber(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
	var max int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(number), 0)
		FROM game_copies
		WHERE game_id = $1`, gameID).Scan(&max)
	return max, err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO game_copies (game_id, number, code, condition, available)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		c.GameID, c.Number, c.Code, c.Condition, c.Available,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) Update(ctx context.Context, copyID int64, p UpdatePatch) (*model.GameCopy, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE game_copies
		SET code      = COALESCE($2, code),
		    condition = COALESCE($3, condition),
		    available = COALESCE($4, available)
		WHERE id = $1`,
		copyID, p.Code, p.Condition, p.Available)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.ByID(ctx, copyID)
}

func (r *repo) Delete(ctx context.Context, copyID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM game_copies WHERE id = $1`, copyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) CountRentals(ctx context.Context, copyID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE copy_id = $1`, copyID).Scan(&n)
	return n, err
}
