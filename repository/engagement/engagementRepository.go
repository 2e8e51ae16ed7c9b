package engagementrepo

import (
	"context"
	"database/sql"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

type Repo interface {
	GetUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error)
	InsertPointsLog(ctx context.Context, tx *sql.Tx, userID, delta int64, reason string) error
	UpdatePointsAndLevel(ctx context.Context, tx *sql.Tx, userID, points int64, level int) error

	GetProjection(ctx context.Context, userID int64) (*model.UserProjection, error)
	Leaderboard(ctx context.Context, limit int) ([]model.UserProjection, error)
	CountWithMorePoints(ctx context.Context, points int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error) {
	p := &model.UserProjection{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, points, level
		FROM users
		WHERE id = $1
		FOR UPDATE`, userID).Scan(&p.ID, &p.Name, &p.Points, &p.Level)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) InsertPointsLog(ctx context.Context, tx *sql.Tx, userID, delta int64, reason string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_points_log (user_id, points, reason)
		VALUES ($1,$2,$3)`, userID, delta, reason)
	return err
}

func (r *repo) UpdatePointsAndLevel(ctx context.Context, tx *sql.Tx, userID, points int64, level int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET points = $2, level = $3 WHERE id = $1`,
		userID, points, level)
	return err
}

func (r *repo) GetProjection(ctx context.Context, userID int64) (*model.UserProjection, error) {
	p := &model.UserProjection{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, points, level FROM users WHERE id = $1`,
		userID).Scan(&p.ID, &p.Name, &p.Points, &p.Level)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Leaderboard(ctx context.Context, limit int) ([]model.UserProjection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, points, level
		FROM users
		ORDER BY points DESC, level DESC, name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserProjection
	for rows.Next() {
		var p model.UserProjection
		if err := rows.Scan(&p.ID, &p.Name, &p.Points, &p.Level); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) CountWithMorePoints(ctx context.Context, points int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE points > $1`, points).Scan(&n)
	return n, err
}
