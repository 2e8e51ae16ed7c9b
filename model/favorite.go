package model

import "time"

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteGame is the game projection returned by the favorites listing.
type FavoriteGame struct {
	GameID int64   `json:"id"`
	Title  string  `json:"title"`
	Cover  *string `json:"cover,omitempty"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}
