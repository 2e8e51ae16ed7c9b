package copysvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/DanielSousa07/Backend-Ludus/model"
	copyrepo "github.com/DanielSousa07/Backend-Ludus/repository/copy"
)

type ErrCode string

const (
	ErrGameNotFound ErrCode = "GAME_NOT_FOUND"
	ErrNotFound     ErrCode = "COPY_NOT_FOUND"
	ErrHasRentals   ErrCode = "COPY_HAS_RENTALS"
	ErrNumberClash  ErrCode = "COPY_NUMBER_CLASH"
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

type UpdatePatch = copyrepo.UpdatePatch

type Service interface {
	List(ctx context.Context, gameID int64) ([]model.GameCopy, error)
	Create(ctx context.Context, gameID int64, condition *string) (*model.GameCopy, error)
	Update(ctx context.Context, copyID int64, patch UpdatePatch) (*model.GameCopy, error)
	Delete(ctx context.Context, copyID int64) error
}

type service struct {
	db *sql.DB
	r  copyrepo.Repo
}

func New(db *sql.DB, r copyrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) List(ctx context.Context, gameID int64) ([]model.GameCopy, error) {
	ok, err := s.r.GameExists(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrGameNotFound)
	}
	return s.r.ListByGame(ctx, gameID)
}

// Create assigns the next sequential number for the game and derives the
// human-readable code from the title. The unique (game_id, number)
// constraint backstops concurrent inserts.
func (s *service) Create(ctx context.Context, gameID int64, condition *string) (c *model.GameCopy, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	title, err := s.r.GameTitle(ctx, tx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrGameNotFound)
		}
		return nil, err
	}

	max, err := s.r.MaxNumber(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	next := max + 1

	if condition != nil {
		trimmed := strings.TrimSpace(*condition)
		condition = &trimmed
	}

	c = &model.GameCopy{
		GameID:    gameID,
		Number:    next,
		Code:      FormatCopyCode(title, next),
		Condition: condition,
		Available: true,
	}
	if err = s.r.Insert(ctx, tx, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrNumberClash)
		}
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// FormatCopyCode builds codes like CATAN-003: accents stripped, runs of
// non-alphanumerics collapsed to '-', uppercased, slug capped at 12.
func FormatCopyCode(title string, num int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	lastDash := false
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(unicode.ToUpper(r))
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 12 {
		slug = strings.Trim(slug[:12], "-")
	}
	return fmt.Sprintf("%s-%03d", slug, num)
}

func (s *service) Update(ctx context.Context, copyID int64, patch UpdatePatch) (*model.GameCopy, error) {
	if patch.Code != nil {
		trimmed := strings.TrimSpace(*patch.Code)
		patch.Code = &trimmed
	}
	if patch.Condition != nil {
		trimmed := strings.TrimSpace(*patch.Condition)
		patch.Condition = &trimmed
	}

	c, err := s.r.Update(ctx, copyID, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, copyID int64) error {
	n, err := s.r.CountRentals(ctx, copyID)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrHasRentals)
	}
	if err := s.r.Delete(ctx, copyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}
