package rentalsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielSousa07/Backend-Ludus/model"
	rentalrepo "github.com/DanielSousa07/Backend-Ludus/repository/rental"
)

type ErrCode string

const (
	ErrGameNotFound      ErrCode = "GAME_NOT_FOUND"
	ErrCopyNotFound      ErrCode = "COPY_NOT_FOUND"
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrNotOwner          ErrCode = "NOT_OWNER"
	ErrOnlyCopiesAllowed ErrCode = "ONLY_COPIES_ALLOWED"
	ErrCopyUnavailable   ErrCode = "COPY_UNAVAILABLE"
	ErrGameUnavailable   ErrCode = "GAME_UNAVAILABLE"
	ErrFinalized         ErrCode = "RENTAL_FINALIZED"
	ErrBadStatus         ErrCode = "BAD_STATUS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	pointsOnCreate int64 = 10
	pointsOnReturn int64 = 5
)

// PointsAwarder credits engagement points. Failures are logged, never
// surfaced: a rental must not roll back because the ledger hiccupped.
type PointsAwarder interface {
	AddPoints(ctx context.Context, userID, delta int64, reason string) (*model.UserProjection, error)
}

type UserRentalRow = rentalrepo.UserRentalRow
type AdminRow = rentalrepo.AdminRow
type AdminFilter = rentalrepo.AdminFilter

type Service interface {
	Create(ctx context.Context, userID, gameID int64, copyID *int64, endDate time.Time) (*model.Rental, error)
	Return(ctx context.Context, callerID, rentalID int64) (*model.Rental, error)
	MyRentals(ctx context.Context, userID int64) ([]UserRentalRow, error)

	AdminList(ctx context.Context, f AdminFilter) ([]AdminRow, error)
	SetStatus(ctx context.Context, rentalID int64, status model.RentalStatus) (*model.Rental, error)
}

type service struct {
	db     *sql.DB
	r      rentalrepo.Repo
	points PointsAwarder
	log    *slog.Logger
}

func New(db *sql.DB, r rentalrepo.Repo, points PointsAwarder, log *slog.Logger) Service {
	return &service{db: db, r: r, points: points, log: log}
}

// Create flips availability and inserts the PENDING rental in one
// transaction; the winner of a race holds the row lock, the loser
// re-reads "unavailable" and gets a conflict.
func (s *service) Create(ctx context.Context, userID, gameID int64, copyID *int64, endDate time.Time) (rt *model.Rental, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	game, err := s.r.GetGameForUpdate(ctx, tx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrGameNotFound)
		}
		return nil, err
	}

	if copyID == nil && !game.AllowOriginalRental {
		n, err := s.r.CountCopies(ctx, tx, gameID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, makeErr(ErrOnlyCopiesAllowed)
		}
	}

	if copyID != nil {
		copy, err := s.r.GetCopyForUpdate(ctx, tx, *copyID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrCopyNotFound)
			}
			return nil, err
		}
		if copy.GameID != game.ID {
			return nil, makeErr(ErrCopyNotFound)
		}
		if !copy.Available {
			return nil, makeErr(ErrCopyUnavailable)
		}
		if err = s.r.SetCopyAvailable(ctx, tx, copy.ID, false); err != nil {
			return nil, err
		}
	} else {
		if !game.Available {
			return nil, makeErr(ErrGameUnavailable)
		}
		if err = s.r.SetGameAvailable(ctx, tx, game.ID, false); err != nil {
			return nil, err
		}
	}

	rt, err = s.r.Insert(ctx, tx, userID, gameID, copyID, endDate)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.awardPoints(userID, pointsOnCreate, fmt.Sprintf("RENTAL_CREATED:%d", rt.ID))
	return rt, nil
}

func (s *service) awardPoints(userID, delta int64, reason string) {
	go func() {
		// Detached from the request: the rental is already committed.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.points.AddPoints(ctx, userID, delta, reason); err != nil {
			s.log.Error("points credit failed", "user_id", userID, "reason", reason, "err", err)
		}
	}()
}

func (s *service) Return(ctx context.Context, callerID, rentalID int64) (*model.Rental, error) {
	rt, _, err := s.transition(ctx, rentalID, model.RentalReturned, &callerID)
	if err != nil {
		return nil, err
	}
	s.awardPoints(rt.UserID, pointsOnReturn, fmt.Sprintf("RENTAL_RETURNED:%d", rt.ID))
	return rt, nil
}

func (s *service) SetStatus(ctx context.Context, rentalID int64, status model.RentalStatus) (*model.Rental, error) {
	switch status {
	case model.RentalActive, model.RentalReturned, model.RentalCanceled:
	default:
		return nil, makeErr(ErrBadStatus)
	}

	rt, changed, err := s.transition(ctx, rentalID, status, nil)
	if err != nil {
		return nil, err
	}
	if changed && status == model.RentalReturned {
		s.awardPoints(rt.UserID, pointsOnReturn, fmt.Sprintf("ADMIN_RENTAL_RETURNED:%d", rt.ID))
	}
	return rt, nil
}

// transition moves a rental to status, restoring availability when the
// target is terminal. ownerID, when set, must match the rental's owner.
// A finalized rental admits no further change: owners always get a
// conflict, admins get a conflict unless they re-set the same terminal
// status, which is a no-op.
func (s *service) transition(ctx context.Context, rentalID int64, status model.RentalStatus, ownerID *int64) (rt *model.Rental, changed bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rt, err = s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, makeErr(ErrNotFound)
		}
		return nil, false, err
	}
	if ownerID != nil && rt.UserID != *ownerID {
		return nil, false, makeErr(ErrNotOwner)
	}
	if rt.Status.Finalized() {
		if ownerID != nil || status != rt.Status {
			return nil, false, makeErr(ErrFinalized)
		}
		err = tx.Commit()
		return rt, false, err
	}

	if status.Finalized() {
		if rt.CopyID != nil {
			err = s.r.SetCopyAvailable(ctx, tx, *rt.CopyID, true)
		} else {
			err = s.r.SetGameAvailable(ctx, tx, rt.GameID, true)
		}
		if err != nil {
			return nil, false, err
		}
	}

	if err = s.r.SetStatus(ctx, tx, rt.ID, status); err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, err
	}

	rt.Status = status
	return rt, true, nil
}

func (s *service) MyRentals(ctx context.Context, userID int64) ([]UserRentalRow, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) AdminList(ctx context.Context, f AdminFilter) ([]AdminRow, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, makeErr(ErrBadStatus)
	}
	return s.r.AdminList(ctx, f)
}
