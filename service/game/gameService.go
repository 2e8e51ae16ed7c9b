package gamesvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/DanielSousa07/Backend-Ludus/model"
	gamerepo "github.com/DanielSousa07/Backend-Ludus/repository/game"
	ludopediarepo "github.com/DanielSousa07/Backend-Ludus/repository/ludopedia"
)

type ErrCode string

const (
	ErrNotFound      ErrCode = "GAME_NOT_FOUND"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrHasRentals    ErrCode = "GAME_HAS_RENTALS"
	ErrRatingBlocked ErrCode = "RATING_NOT_ALLOWED"
	ErrLookupFailed  ErrCode = "CATALOG_LOOKUP_FAILED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Filter = gamerepo.Filter
type UpdatePatch = gamerepo.UpdatePatch

type CreateInput struct {
	LudopediaID int64
	Title       string
	Cover       *string
	Price       float64
}

type RatingResult struct {
	Rating       float64 `json:"avgRating"`
	RatingsCount int64   `json:"ratingsCount"`
	MyRating     int     `json:"myRating"`
}

type Service interface {
	List(ctx context.Context, f Filter) ([]model.Game, error)
	Detail(ctx context.Context, id int64) (*model.Game, error)
	Create(ctx context.Context, in CreateInput) (*model.Game, error)
	Update(ctx context.Context, id int64, patch UpdatePatch) (*model.Game, error)
	Delete(ctx context.Context, id int64) error

	CanRate(ctx context.Context, userID, gameID int64) (bool, error)
	Rate(ctx context.Context, userID, gameID int64, value int) (*RatingResult, error)

	SearchLudopedia(query string) ([]ludopediarepo.SearchResult, error)
}

type service struct {
	db   *sql.DB
	r    gamerepo.Repo
	ludo ludopediarepo.Repo
}

func New(db *sql.DB, r gamerepo.Repo, ludo ludopediarepo.Repo) Service {
	return &service{db: db, r: r, ludo: ludo}
}

func (s *service) List(ctx context.Context, f Filter) ([]model.Game, error) {
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Game, error) {
	g, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

// Create enriches the catalog entry from Ludopedia. The lookup is a
// critical dependency here: without the metadata the entry is junk.
func (s *service) Create(ctx context.Context, in CreateInput) (*model.Game, error) {
	if in.LudopediaID <= 0 || strings.TrimSpace(in.Title) == "" || in.Price < 0 {
		return nil, makeErr(ErrBadInput)
	}

	details, err := s.ludo.Details(in.LudopediaID)
	if err != nil {
		return nil, makeErr(ErrLookupFailed)
	}

	g := &model.Game{
		LudopediaID:         in.LudopediaID,
		Title:               strings.TrimSpace(in.Title),
		Cover:               in.Cover,
		Description:         details.Description,
		Price:               in.Price,
		Available:           true,
		AllowOriginalRental: true,
		Rating:              details.Rating,
		MinPlayers:          details.MinPlayers,
		MaxPlayers:          details.MaxPlayers,
		MinAge:              details.MinAge,
		MaxTime:             details.MaxTime,
	}
	if err := s.r.Create(ctx, g); err != nil {
		return nil, err
	}
	g.AvailableNow = true
	return g, nil
}

func (s *service) Update(ctx context.Context, id int64, patch UpdatePatch) (*model.Game, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, makeErr(ErrBadInput)
	}
	g, err := s.r.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	n, err := s.r.CountRentals(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrHasRentals)
	}
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) CanRate(ctx context.Context, userID, gameID int64) (bool, error) {
	return s.r.HasReturnedRental(ctx, userID, gameID)
}

// Rate requires a completed rental of the game, then upserts the rating
// and recomputes the aggregate within one transaction.
func (s *service) Rate(ctx context.Context, userID, gameID int64, value int) (res *RatingResult, err error) {
	if value < 1 || value > 5 {
		return nil, makeErr(ErrBadInput)
	}

	if _, err := s.Detail(ctx, gameID); err != nil {
		return nil, err
	}

	ok, err := s.r.HasReturnedRental(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrRatingBlocked)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.r.UpsertRating(ctx, tx, userID, gameID, value); err != nil {
		return nil, err
	}
	avg, count, err := s.r.AggregateRatings(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	if err = s.r.UpdateRatingStats(ctx, tx, gameID, avg, count); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &RatingResult{Rating: avg, RatingsCount: count, MyRating: value}, nil
}

func (s *service) SearchLudopedia(query string) ([]ludopediarepo.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, makeErr(ErrBadInput)
	}
	return s.ludo.Search(query)
}
