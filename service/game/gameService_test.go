package gamesvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/DanielSousa07/Backend-Ludus/model"
	gamerepo "github.com/DanielSousa07/Backend-Ludus/repository/game"
	ludopediarepo "github.com/DanielSousa07/Backend-Ludus/repository/ludopedia"
)

type mockRepo struct {
	listFn              func(ctx context.Context, f gamerepo.Filter) ([]model.Game, error)
	byIDFn              func(ctx context.Context, id int64) (*model.Game, error)
	createFn            func(ctx context.Context, g *model.Game) error
	updateFn            func(ctx context.Context, id int64, patch gamerepo.UpdatePatch) (*model.Game, error)
	deleteFn            func(ctx context.Context, id int64) error
	countRentalsFn      func(ctx context.Context, gameID int64) (int64, error)
	hasReturnedRentalFn func(ctx context.Context, userID, gameID int64) (bool, error)
	upsertRatingFn      func(ctx context.Context, tx *sql.Tx, userID, gameID int64, value int) error
	aggregateRatingsFn  func(ctx context.Context, tx *sql.Tx, gameID int64) (float64, int64, error)
	updateRatingStatsFn func(ctx context.Context, tx *sql.Tx, gameID int64, avg float64, count int64) error
}

var _ gamerepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) List(ctx context.Context, f gamerepo.Filter) ([]model.Game, error) {
	return m.listFn(ctx, f)
}

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.Game, error) {
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) Create(ctx context.Context, g *model.Game) error {
	return m.createFn(ctx, g)
}

func (m *mockRepo) Update(ctx context.Context, id int64, patch gamerepo.UpdatePatch) (*model.Game, error) {
	return m.updateFn(ctx, id, patch)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepo) CountRentals(ctx context.Context, gameID int64) (int64, error) {
	return m.countRentalsFn(ctx, gameID)
}

func (m *mockRepo) HasReturnedRental(ctx context.Context, userID, gameID int64) (bool, error) {
	return m.hasReturnedRentalFn(ctx, userID, gameID)
}

func (m *mockRepo) UpsertRating(ctx context.Context, tx *sql.Tx, userID, gameID int64, value int) error {
	return m.upsertRatingFn(ctx, tx, userID, gameID, value)
}

func (m *mockRepo) AggregateRatings(ctx context.Context, tx *sql.Tx, gameID int64) (float64, int64, error) {
	return m.aggregateRatingsFn(ctx, tx, gameID)
}

func (m *mockRepo) UpdateRatingStats(ctx context.Context, tx *sql.Tx, gameID int64, avg float64, count int64) error {
	return m.updateRatingStatsFn(ctx, tx, gameID, avg, count)
}

type mockLudo struct {
	searchFn  func(query string) ([]ludopediarepo.SearchResult, error)
	detailsFn func(ludopediaID int64) (*ludopediarepo.GameDetails, error)
}

func (m *mockLudo) Search(query string) ([]ludopediarepo.SearchResult, error) {
	return m.searchFn(query)
}

func (m *mockLudo) Details(ludopediaID int64) (*ludopediarepo.GameDetails, error) {
	return m.detailsFn(ludopediaID)
}

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

// --- tests ---

func TestCreate_EnrichesFromLudopedia(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, g *model.Game) error {
			g.ID = 11
			return nil
		},
	}
	ludo := &mockLudo{
		detailsFn: func(ludopediaID int64) (*ludopediarepo.GameDetails, error) {
			require.Equal(t, int64(555), ludopediaID)
			return &ludopediarepo.GameDetails{
				Description: "Jogo de estratégia",
				Rating:      4.2,
				MinPlayers:  2,
				MaxPlayers:  iptr(4),
				MinAge:      10,
				MaxTime:     iptr(90),
			}, nil
		},
	}
	svc := New(nil, m, ludo)

	g, err := svc.Create(ctx, CreateInput{LudopediaID: 555, Title: "  Catan ", Price: 25})
	require.NoError(t, err)
	require.Equal(t, int64(11), g.ID)
	require.Equal(t, "Catan", g.Title)
	require.Equal(t, "Jogo de estratégia", g.Description)
	require.Equal(t, 2, g.MinPlayers)
	require.True(t, g.Available)
	require.True(t, g.AllowOriginalRental)
	require.True(t, g.AvailableNow)
}

func TestCreate_LookupFailure(t *testing.T) {
	ctx := context.Background()
	ludo := &mockLudo{
		detailsFn: func(ludopediaID int64) (*ludopediarepo.GameDetails, error) {
			return nil, errors.New("ludopedia 502")
		},
	}
	svc := New(nil, &mockRepo{}, ludo)

	_, err := svc.Create(ctx, CreateInput{LudopediaID: 555, Title: "Catan", Price: 25})
	require.Error(t, err)
	require.Equal(t, ErrLookupFailed, Code(err))
}

func TestCreate_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, &mockRepo{}, &mockLudo{})

	_, err := svc.Create(ctx, CreateInput{LudopediaID: 0, Title: "Catan", Price: 10})
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Create(ctx, CreateInput{LudopediaID: 5, Title: "  ", Price: 10})
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Create(ctx, CreateInput{LudopediaID: 5, Title: "Catan", Price: -1})
	require.Equal(t, ErrBadInput, Code(err))
}

func TestUpdate_RejectsNegativePrice(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, &mockRepo{}, &mockLudo{})

	_, err := svc.Update(ctx, 11, UpdatePatch{Price: f64(-3)})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestDelete_BlockedByRentalHistory(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		countRentalsFn: func(ctx context.Context, gameID int64) (int64, error) { return 2, nil },
	}
	svc := New(nil, m, &mockLudo{})

	err := svc.Delete(ctx, 11)
	require.Error(t, err)
	require.Equal(t, ErrHasRentals, Code(err))
}

func TestDelete_Success(t *testing.T) {
	ctx := context.Background()
	var deleted int64
	m := &mockRepo{
		countRentalsFn: func(ctx context.Context, gameID int64) (int64, error) { return 0, nil },
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	svc := New(nil, m, &mockLudo{})

	require.NoError(t, svc.Delete(ctx, 11))
	require.Equal(t, int64(11), deleted)
}

func TestRate_RequiresReturnedRental(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Game, error) {
			return &model.Game{ID: id}, nil
		},
		hasReturnedRentalFn: func(ctx context.Context, userID, gameID int64) (bool, error) {
			return false, nil
		},
	}
	svc := New(nil, m, &mockLudo{})

	_, err := svc.Rate(ctx, 1, 11, 4)
	require.Error(t, err)
	require.Equal(t, ErrRatingBlocked, Code(err))
}

func TestRate_ValueOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, &mockRepo{}, &mockLudo{})

	_, err := svc.Rate(ctx, 1, 11, 0)
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Rate(ctx, 1, 11, 6)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestRate_UpsertsAndRecomputesAggregate(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Game, error) {
			return &model.Game{ID: id}, nil
		},
		hasReturnedRentalFn: func(ctx context.Context, userID, gameID int64) (bool, error) {
			return true, nil
		},
		upsertRatingFn: func(ctx context.Context, tx *sql.Tx, userID, gameID int64, value int) error {
			require.Equal(t, 4, value)
			return nil
		},
		aggregateRatingsFn: func(ctx context.Context, tx *sql.Tx, gameID int64) (float64, int64, error) {
			// [1,5,3,5,4] after the upsert
			return 3.6, 5, nil
		},
		updateRatingStatsFn: func(ctx context.Context, tx *sql.Tx, gameID int64, avg float64, count int64) error {
			require.Equal(t, 3.6, avg)
			require.Equal(t, int64(5), count)
			return nil
		},
	}
	svc := New(db, m, &mockLudo{})

	res, err := svc.Rate(ctx, 1, 11, 4)
	require.NoError(t, err)
	require.Equal(t, 3.6, res.Rating)
	require.Equal(t, int64(5), res.RatingsCount)
	require.Equal(t, 4, res.MyRating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRate_UnknownGame(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Game, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(nil, m, &mockLudo{})

	_, err := svc.Rate(ctx, 1, 404, 4)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestSearchLudopedia_EmptyQuery(t *testing.T) {
	svc := New(nil, &mockRepo{}, &mockLudo{})

	_, err := svc.SearchLudopedia("   ")
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}
