package model

import "time"

type Game struct {
	ID                  int64     `json:"id"`
	LudopediaID         int64     `json:"ludopedia_id"`
	Title               string    `json:"title"`
	Cover               *string   `json:"cover,omitempty"`
	Description         string    `json:"description"`
	Price               float64   `json:"price"`
	Available           bool      `json:"available"`
	AllowOriginalRental bool      `json:"allow_original_rental"`
	Rating              float64   `json:"rating"`
	RatingsCount        int64     `json:"ratings_count"`
	MinPlayers          int       `json:"min_players"`
	MaxPlayers          *int      `json:"max_players,omitempty"`
	MinAge              int       `json:"min_age"`
	MaxTime             *int      `json:"max_time,omitempty"`
	CreatedAt           time.Time `json:"created_at"`

	// AvailableNow is derived: at least one available copy, or no
	// copies at all and the original itself is rentable.
	AvailableNow bool `json:"available_now"`
}

type GameCopy struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	Number    int       `json:"number"`
	Code      string    `json:"code"`
	Condition *string   `json:"condition,omitempty"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

type GameRating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
