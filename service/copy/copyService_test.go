package copysvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/DanielSousa07/Backend-Ludus/model"
	copyrepo "github.com/DanielSousa07/Backend-Ludus/repository/copy"
)

type mockRepo struct {
	listByGameFn   func(ctx context.Context, gameID int64) ([]model.GameCopy, error)
	byIDFn         func(ctx context.Context, copyID int64) (*model.GameCopy, error)
	gameExistsFn   func(ctx context.Context, gameID int64) (bool, error)
	gameTitleFn    func(ctx context.Context, tx *sql.Tx, gameID int64) (string, error)
	maxNumberFn    func(ctx context.Context, tx *sql.Tx, gameID int64) (int, error)
	insertFn       func(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error
	updateFn       func(ctx context.Context, copyID int64, patch copyrepo.UpdatePatch) (*model.GameCopy, error)
	deleteFn       func(ctx context.Context, copyID int64) error
	countRentalsFn func(ctx context.Context, copyID int64) (int64, error)
}

var _ copyrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ListByGame(ctx context.Context, gameID int64) ([]model.GameCopy, error) {
	return m.listByGameFn(ctx, gameID)
}

func (m *mockRepo) ByID(ctx context.Context, copyID int64) (*model.GameCopy, error) {
	return m.byIDFn(ctx, copyID)
}

func (m *mockRepo) GameExists(ctx context.Context, gameID int64) (bool, error) {
	return m.gameExistsFn(ctx, gameID)
}

func (m *mockRepo) GameTitle(ctx context.Context, tx *sql.Tx, gameID int64) (string, error) {
	return m.gameTitleFn(ctx, tx, gameID)
}

func (m *mockRepo) MaxNumber(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
	return m.maxNumberFn(ctx, tx, gameID)
}

func (m *mockRepo) Insert(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error {
	return m.insertFn(ctx, tx, c)
}

func (m *mockRepo) Update(ctx context.Context, copyID int64, patch copyrepo.UpdatePatch) (*model.GameCopy, error) {
	return m.updateFn(ctx, copyID, patch)
}

func (m *mockRepo) Delete(ctx context.Context, copyID int64) error {
	return m.deleteFn(ctx, copyID)
}

func (m *mockRepo) CountRentals(ctx context.Context, copyID int64) (int64, error) {
	return m.countRentalsFn(ctx, copyID)
}

// --- tests ---

func TestFormatCopyCode(t *testing.T) {
	cases := []struct {
		title string
		num   int
		want  string
	}{
		{"Catan", 3, "CATAN-003"},
		{"Herói do Reino", 1, "HEROI-DO-REI-001"},
		{"7 Wonders: Duel!", 2, "7-WONDERS-DU-002"},
		{"AB CD EF GH IJ", 5, "AB-CD-EF-GH-005"},
		{"Açúcar & Café", 12, "ACUCAR-CAFE-012"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatCopyCode(tc.title, tc.num), "title=%q", tc.title)
	}
}

func TestList_UnknownGame(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		gameExistsFn: func(ctx context.Context, gameID int64) (bool, error) { return false, nil },
	}
	svc := New(nil, m)

	_, err := svc.List(ctx, 404)
	require.Error(t, err)
	require.Equal(t, ErrGameNotFound, Code(err))
}

func TestCreate_SequentialNumberAndCode(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		gameTitleFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (string, error) {
			return "Catan", nil
		},
		maxNumberFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
			return 2, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error {
			c.ID = 31
			return nil
		},
	}
	svc := New(db, m)

	c, err := svc.Create(ctx, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 3, c.Number)
	require.Equal(t, "CATAN-003", c.Code)
	require.True(t, c.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_GameNotFound(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		gameTitleFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (string, error) {
			return "", sql.ErrNoRows
		},
	}
	svc := New(db, m)

	_, err = svc.Create(ctx, 404, nil)
	require.Error(t, err)
	require.Equal(t, ErrGameNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NumberClash(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		gameTitleFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (string, error) {
			return "Catan", nil
		},
		maxNumberFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
			return 2, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, c *model.GameCopy) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "game_copies_game_number_key"}
		},
	}
	svc := New(db, m)

	_, err = svc.Create(ctx, 10, nil)
	require.Error(t, err)
	require.Equal(t, ErrNumberClash, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_BlockedByRentalHistory(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		countRentalsFn: func(ctx context.Context, copyID int64) (int64, error) { return 1, nil },
	}
	svc := New(nil, m)

	err := svc.Delete(ctx, 31)
	require.Error(t, err)
	require.Equal(t, ErrHasRentals, Code(err))
}

func TestDelete_Success(t *testing.T) {
	ctx := context.Background()
	var deleted int64
	m := &mockRepo{
		countRentalsFn: func(ctx context.Context, copyID int64) (int64, error) { return 0, nil },
		deleteFn: func(ctx context.Context, copyID int64) error {
			deleted = copyID
			return nil
		},
	}
	svc := New(nil, m)

	require.NoError(t, svc.Delete(ctx, 31))
	require.Equal(t, int64(31), deleted)
}
