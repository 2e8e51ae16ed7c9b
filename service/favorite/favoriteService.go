package favoritesvc

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DanielSousa07/Backend-Ludus/model"
	favoriterepo "github.com/DanielSousa07/Backend-Ludus/repository/favorite"
)

type ErrCode string

const (
	ErrGameNotFound     ErrCode = "GAME_NOT_FOUND"
	ErrAlreadyFavorited ErrCode = "ALREADY_FAVORITED"
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

type Service interface {
	List(ctx context.Context, userID int64) ([]model.FavoriteGame, error)
	Add(ctx context.Context, userID, gameID int64) error
	Remove(ctx context.Context, userID, gameID int64) error
	Check(ctx context.Context, userID, gameID int64) (bool, error)
}

type service struct{ r favoriterepo.Repo }

func New(r favoriterepo.Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, userID int64) ([]model.FavoriteGame, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID, gameID int64) error {
	ok, err := s.r.GameExists(ctx, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrGameNotFound)
	}

	if err := s.r.Insert(ctx, userID, gameID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return makeErr(ErrAlreadyFavorited)
		}
		return err
	}
	return nil
}

// Remove is idempotent: unfavoriting something never favorited is a no-op.
func (s *service) Remove(ctx context.Context, userID, gameID int64) error {
	return s.r.Delete(ctx, userID, gameID)
}

func (s *service) Check(ctx context.Context, userID, gameID int64) (bool, error) {
	return s.r.Exists(ctx, userID, gameID)
}
