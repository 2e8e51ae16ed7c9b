package favoriterepo

import (
	"context"
	"database/sql"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]model.FavoriteGame, error)
	Insert(ctx context.Context, userID, gameID int64) error
	Delete(ctx context.Context, userID, gameID int64) error
	Exists(ctx context.Context, userID, gameID int64) (bool, error)
	GameExists(ctx context.Context, gameID int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.FavoriteGame, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.title, g.cover, g.price, g.rating
		FROM favorites f
		JOIN games g ON g.id = f.game_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FavoriteGame
	for rows.Next() {
		var fg model.FavoriteGame
		if err := rows.Scan(&fg.GameID, &fg.Title, &fg.Cover, &fg.Price, &fg.Rating); err != nil {
			return nil, err
		}
		out = append(out, fg)
	}
	return out, rows.Err()
}

func (r *repo) Insert(ctx context.Context, userID, gameID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, game_id) VALUES ($1,$2)`,
		userID, gameID)
	return err
}

func (r *repo) Delete(ctx context.Context, userID, gameID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND game_id = $2`,
		userID, gameID)
	return err
}

func (r *repo) Exists(ctx context.Context, userID, gameID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND game_id = $2)`,
		userID, gameID).Scan(&ok)
	return ok, err
}

func (r *repo) GameExists(ctx context.Context, gameID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, gameID).Scan(&ok)
	return ok, err
}
