package gamerepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

// Filter is the conjunctive predicate set for the catalog listing.
// Nil pointers mean "no constraint".
type Filter struct {
	Query    string
	Status   string // AVAILABLE | UNAVAILABLE | ALL | ""
	PriceMin *float64
	PriceMax *float64
	Players  *int
	Age      *int
	TimeMax  *int
	Stars    []int // 1..5, buckets are ORed
}

type Repo interface {
	List(ctx context.Context, f Filter) ([]model.Game, error)
	ByID(ctx context.Context, id int64) (*model.Game, error)
	Create(ctx context.Context, g *model.Game) error
	Update(ctx context.Context, id int64, patch UpdatePatch) (*model.Game, error)
	Delete(ctx context.Context, id int64) error
	CountRentals(ctx context.Context, gameID int64) (int64, error)

	HasReturnedRental(ctx context.Context, userID, gameID int64) (bool, error)
	UpsertRating(ctx context.Context, tx *sql.Tx, userID, gameID int64, value int) error
	AggregateRatings(ctx context.Context, tx *sql.Tx, gameID int64) (avg float64, count int64, err error)
	UpdateRatingStats(ctx context.Context, tx *sql.Tx, gameID int64, avg float64, count int64) error
}

type UpdatePatch struct {
	Title               *string
	Cover               *string
	Description         *string
	Price               *float64
	Available           *bool
	AllowOriginalRental *bool
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// availableNow: at least one available copy, or no copies at all and the
// original itself is still rentable.
const availableNowExpr = `(
	EXISTS (SELECT 1 FROM game_copies gc WHERE gc.game_id = g.id AND gc.available)
	OR (NOT EXISTS (SELECT 1 FROM game_copies gc WHERE gc.game_id = g.id) AND g.available)
)`

const gameCols = `g.id, g.ludopedia_id, g.title, g.cover, g.description, g.price,
	g.available, g.allow_original_rental, g.rating, g.ratings_count,
	g.min_players, g.max_players, g.min_age, g.max_time, g.created_at, ` +
	availableNowExpr + ` AS available_now`

func scanGame(s interface{ Scan(...any) error }) (*model.Game, error) {
	g := &model.Game{}
	err := s.Scan(
		&g.ID, &g.LudopediaID, &g.Title, &g.Cover, &g.Description, &g.Price,
		&g.Available, &g.AllowOriginalRental, &g.Rating, &g.RatingsCount,
		&g.MinPlayers, &g.MaxPlayers, &g.MinAge, &g.MaxTime, &g.CreatedAt,
		&g.AvailableNow,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.Game, error) {
	where, args := buildWhere(f)
	q := `SELECT ` + gameCols + ` FROM games g` + where + ` ORDER BY g.title ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func buildWhere(f Filter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		conds = append(conds, "g.title ILIKE "+arg("%"+f.Query+"%"))
	}
	switch f.Status {
	case "AVAILABLE":
		conds = append(conds, availableNowExpr)
	case "UNAVAILABLE":
		conds = append(conds, "NOT "+availableNowExpr)
	}
	if f.PriceMin != nil {
		conds = append(conds, "g.price >= "+arg(*f.PriceMin))
	}
	if f.PriceMax != nil {
		conds = append(conds, "g.price <= "+arg(*f.PriceMax))
	}
	if f.Players != nil {
		conds = append(conds, "g.max_players <= "+arg(*f.Players))
	}
	if f.Age != nil {
		conds = append(conds, "g.min_age <= "+arg(*f.Age))
	}
	if f.TimeMax != nil {
		conds = append(conds, "g.max_time <= "+arg(*f.TimeMax))
	}
	if len(f.Stars) > 0 {
		var buckets []string
		for _, s := range f.Stars {
			lo, hi, closedHi := StarBucket(s)
			if closedHi {
				buckets = append(buckets, "(g.rating >= "+arg(lo)+" AND g.rating <= "+arg(hi)+")")
			} else {
				buckets = append(buckets, "(g.rating >= "+arg(lo)+" AND g.rating < "+arg(hi)+")")
			}
		}
		conds = append(conds, "("+strings.Join(buckets, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// StarBucket maps an integer star s onto a rating interval
// [s-0.5, s+0.5); 5 stars closes the interval at 5.0.
func StarBucket(s int) (lo, hi float64, closedHi bool) {
	if s >= 5 {
		return 4.5, 5.0, true
	}
	return float64(s) - 0.5, float64(s) + 0.5, false
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Game, error) {
	return scanGame(r.db.QueryRowContext(ctx,
		`SELECT `+gameCols+` FROM games g WHERE g.id = $1`, id))
}

func (r *repo) Create(ctx context.Context, g *model.Game) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO games (ludopedia_id, title, cover, description, price,
			available, allow_original_rental, rating,
			min_players, max_players, min_age, max_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at`,
		g.LudopediaID, g.Title, g.Cover, g.Description, g.Price,
		g.Available, g.AllowOriginalRental, g.Rating,
		g.MinPlayers, g.MaxPlayers, g.MinAge, g.MaxTime,
	).Scan(&g.ID, &g.CreatedAt)
}

func (r *repo) Update(ctx context.Context, id int64, p UpdatePatch) (*model.Game, error) {
	var sets []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Title != nil {
		sets = append(sets, "title = "+arg(*p.Title))
	}
	if p.Cover != nil {
		sets = append(sets, "cover = "+arg(*p.Cover))
	}
	if p.Description != nil {
		sets = append(sets, "description = "+arg(*p.Description))
	}
	if p.Price != nil {
		sets = append(sets, "price = "+arg(*p.Price))
	}
	if p.Available != nil {
		sets = append(sets, "available = "+arg(*p.Available))
	}
	if p.AllowOriginalRental != nil {
		sets = append(sets, "allow_original_rental = "+arg(*p.AllowOriginalRental))
	}
	if len(sets) == 0 {
		return r.ByID(ctx, id)
	}

	q := "UPDATE games SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.ByID(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) CountRentals(ctx context.Context, gameID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

func (r *repo) HasReturnedRental(ctx context.Context, userID, gameID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rentals
			WHERE user_id = $1 AND game_id = $2 AND status = 'RETURNED'
		)`, userID, gameID).Scan(&ok)
	return ok, err
}

func (r *repo) UpsertRating(ctx context.Context, tx *sql.Tx, userID, gameID int64, value int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO game_ratings (user_id, game_id, value)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, game_id) DO UPDATE SET value = EXCLUDED.value`,
		userID, gameID, value)
	return err
}

func (r *repo) AggregateRatings(ctx context.Context, tx *sql.Tx, gameID int64) (float64, int64, error) {
	var avg float64
	var count int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(value), 0), COUNT(*)
		FROM game_ratings
		WHERE game_id = $1`, gameID).Scan(&avg, &count)
	return avg, count, err
}

func (r *repo) UpdateRatingStats(ctx context.Context, tx *sql.Tx, gameID int64, avg float64, count int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE games SET rating = $2, ratings_count = $3 WHERE id = $1`,
		gameID, avg, count)
	return err
}
