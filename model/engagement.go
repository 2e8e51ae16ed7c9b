package model

import "time"

type LevelConfig struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	MinPoints int64  `json:"minPoints"`
}

// UserPointsLog is an append-only audit row; entries are never mutated.
type UserPointsLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProjection is the minimal engagement view of a user.
type UserProjection struct {
	ID     int64  `json:"userId"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
	Level  int    `json:"level"`
}
