package engagementsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/DanielSousa07/Backend-Ludus/model"
	engagementrepo "github.com/DanielSousa07/Backend-Ludus/repository/engagement"
)

type mockRepo struct {
	getUserForUpdateFn    func(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error)
	insertPointsLogFn     func(ctx context.Context, tx *sql.Tx, userID, delta int64, reason string) error
	updatePointsAndLvlFn  func(ctx context.Context, tx *sql.Tx, userID, points int64, level int) error
	getProjectionFn       func(ctx context.Context, userID int64) (*model.UserProjection, error)
	leaderboardFn         func(ctx context.Context, limit int) ([]model.UserProjection, error)
	countWithMorePointsFn func(ctx context.Context, points int64) (int64, error)
}

var _ engagementrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) GetUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error) {
	return m.getUserForUpdateFn(ctx, tx, userID)
}

func (m *mockRepo) InsertPointsLog(ctx context.Context, tx *sql.Tx, userID, delta int64, reason string) error {
	if m.insertPointsLogFn == nil {
		return nil
	}
	return m.insertPointsLogFn(ctx, tx, userID, delta, reason)
}

func (m *mockRepo) UpdatePointsAndLevel(ctx context.Context, tx *sql.Tx, userID, points int64, level int) error {
	if m.updatePointsAndLvlFn == nil {
		return nil
	}
	return m.updatePointsAndLvlFn(ctx, tx, userID, points, level)
}

func (m *mockRepo) GetProjection(ctx context.Context, userID int64) (*model.UserProjection, error) {
	return m.getProjectionFn(ctx, userID)
}

func (m *mockRepo) Leaderboard(ctx context.Context, limit int) ([]model.UserProjection, error) {
	return m.leaderboardFn(ctx, limit)
}

func (m *mockRepo) CountWithMorePoints(ctx context.Context, points int64) (int64, error) {
	return m.countWithMorePointsFn(ctx, points)
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- tests ---

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int64
		level  int
		name   string
	}{
		{0, 1, "Iniciante"},
		{99, 1, "Iniciante"},
		{100, 2, "Explorador"},
		{299, 2, "Explorador"},
		{300, 3, "Estrategista"},
		{699, 3, "Estrategista"},
		{700, 4, "Campeão"},
		{1499, 4, "Campeão"},
		{1500, 5, "Lenda"},
		{1_000_000, 5, "Lenda"},
	}
	for _, tc := range cases {
		lvl := LevelForPoints(tc.points)
		require.Equal(t, tc.level, lvl.Level, "points=%d", tc.points)
		require.Equal(t, tc.name, lvl.Name, "points=%d", tc.points)
	}
}

func TestLevelName_UnknownFallsBack(t *testing.T) {
	require.Equal(t, "Iniciante", LevelName(0))
	require.Equal(t, "Iniciante", LevelName(99))
	require.Equal(t, "Lenda", LevelName(5))
}

func TestAddPoints_CrossesLevelThreshold(t *testing.T) {
	ctx := context.Background()
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var loggedReason string
	var storedPoints int64
	var storedLevel int

	m := &mockRepo{
		getUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error) {
			return &model.UserProjection{ID: userID, Name: "Ana", Points: 95, Level: 1}, nil
		},
		insertPointsLogFn: func(ctx context.Context, tx *sql.Tx, userID, delta int64, reason string) error {
			loggedReason = reason
			return nil
		},
		updatePointsAndLvlFn: func(ctx context.Context, tx *sql.Tx, userID, points int64, level int) error {
			storedPoints = points
			storedLevel = level
			return nil
		},
	}
	svc := New(db, m)

	p, err := svc.AddPoints(ctx, 1, 10, "RENTAL_CREATED:7")
	require.NoError(t, err)
	require.Equal(t, int64(105), p.Points)
	require.Equal(t, 2, p.Level)
	require.Equal(t, int64(105), storedPoints)
	require.Equal(t, 2, storedLevel)
	require.Equal(t, "RENTAL_CREATED:7", loggedReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPoints_FloorsAtZero(t *testing.T) {
	ctx := context.Background()
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		getUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error) {
			return &model.UserProjection{ID: userID, Points: 3, Level: 1}, nil
		},
	}
	svc := New(db, m)

	p, err := svc.AddPoints(ctx, 1, -50, "ADJUSTMENT")
	require.NoError(t, err)
	require.Equal(t, int64(0), p.Points)
	require.Equal(t, 1, p.Level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPoints_UserNotFound(t *testing.T) {
	ctx := context.Background()
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.UserProjection, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(db, m)

	_, err := svc.AddPoints(ctx, 404, 10, "RENTAL_CREATED:1")
	require.Error(t, err)
	require.Equal(t, ErrUserNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboard_RanksAndClampsLimit(t *testing.T) {
	ctx := context.Background()
	var gotLimit int
	m := &mockRepo{
		leaderboardFn: func(ctx context.Context, limit int) ([]model.UserProjection, error) {
			gotLimit = limit
			return []model.UserProjection{
				{ID: 3, Name: "Bia", Points: 800, Level: 4},
				{ID: 1, Name: "Ana", Points: 120, Level: 2},
			}, nil
		},
	}
	svc := New(nil, m)

	out, err := svc.Leaderboard(ctx, 999)
	require.NoError(t, err)
	require.Equal(t, 50, gotLimit)
	require.Len(t, out, 2)
	require.Equal(t, 1, out[0].Rank)
	require.Equal(t, "Campeão", out[0].LevelName)
	require.Equal(t, 2, out[1].Rank)
	require.Equal(t, "Explorador", out[1].LevelName)

	_, err = svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 10, gotLimit)
}

func TestMe_RankCountsUsersAbove(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		getProjectionFn: func(ctx context.Context, userID int64) (*model.UserProjection, error) {
			return &model.UserProjection{ID: userID, Name: "Ana", Points: 310, Level: 3}, nil
		},
		countWithMorePointsFn: func(ctx context.Context, points int64) (int64, error) {
			require.Equal(t, int64(310), points)
			return 4, nil
		},
	}
	svc := New(nil, m)

	me, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(5), me.Rank)
	require.Equal(t, "Estrategista", me.LevelName)
}

func TestLevels_FullTable(t *testing.T) {
	svc := New(nil, &mockRepo{})
	ls := svc.Levels()
	require.Len(t, ls, 5)
	require.Equal(t, int64(0), ls[0].MinPoints)
	require.Equal(t, int64(1500), ls[4].MinPoints)
}
