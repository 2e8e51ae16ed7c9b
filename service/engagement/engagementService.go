package engagementsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielSousa07/Backend-Ludus/model"
	engagementrepo "github.com/DanielSousa07/Backend-Ludus/repository/engagement"
)

type ErrCode string

const (
	ErrUserNotFound ErrCode = "USER_NOT_FOUND"
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

// levels is ascending by MinPoints; the table is fixed product config.
var levels = []model.LevelConfig{
	{Level: 1, Name: "Iniciante", MinPoints: 0},
	{Level: 2, Name: "Explorador", MinPoints: 100},
	{Level: 3, Name: "Estrategista", MinPoints: 300},
	{Level: 4, Name: "Campeão", MinPoints: 700},
	{Level: 5, Name: "Lenda", MinPoints: 1500},
}

// LevelForPoints returns the highest level whose threshold is reached.
func LevelForPoints(points int64) model.LevelConfig {
	current := levels[0]
	for _, lvl := range levels {
		if points >= lvl.MinPoints {
			current = lvl
		}
	}
	return current
}

// LevelName resolves a stored level number to its display name.
func LevelName(level int) string {
	for _, lvl := range levels {
		if lvl.Level == level {
			return lvl.Name
		}
	}
	return levels[0].Name
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
}

type MeResult struct {
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
	Rank      int64  `json:"rank"`
}

type Service interface {
	AddPoints(ctx context.Context, userID, delta int64, reason string) (*model.UserProjection, error)
	Levels() []model.LevelConfig
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Me(ctx context.Context, userID int64) (*MeResult, error)
}

type service struct {
	db *sql.DB
	r  engagementrepo.Repo
}

func New(db *sql.DB, r engagementrepo.Repo) Service {
	return &service{db: db, r: r}
}

// AddPoints appends a ledger entry and moves the user's counter and
// level in one transaction. Points never go below zero.
func (s *service) AddPoints(ctx context.Context, userID, delta int64, reason string) (p *model.UserProjection, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err = s.r.GetUserForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	nextPoints := p.Points + delta
	if nextPoints < 0 {
		nextPoints = 0
	}
	nextLevel := LevelForPoints(nextPoints).Level

	if err = s.r.InsertPointsLog(ctx, tx, userID, delta, reason); err != nil {
		return nil, err
	}
	if err = s.r.UpdatePointsAndLevel(ctx, tx, userID, nextPoints, nextLevel); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	p.Points = nextPoints
	p.Level = nextLevel
	return p, nil
}

func (s *service) Levels() []model.LevelConfig { return levels }

func (s *service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	users, err := s.r.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			Name:      u.Name,
			Points:    u.Points,
			Level:     u.Level,
			LevelName: LevelName(u.Level),
		})
	}
	return out, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*MeResult, error) {
	p, err := s.r.GetProjection(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	above, err := s.r.CountWithMorePoints(ctx, p.Points)
	if err != nil {
		return nil, err
	}

	return &MeResult{
		UserID:    p.ID,
		Name:      p.Name,
		Points:    p.Points,
		Level:     p.Level,
		LevelName: LevelName(p.Level),
		Rank:      above + 1,
	}, nil
}
