package game

type CreateGameReq struct {
	LudopediaID int64   `json:"ludopediaId" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Cover       *string `json:"cover"`
	Price       string  `json:"price" validate:"required"`
}

type UpdateGameReq struct {
	Title               *string `json:"title"`
	Cover               *string `json:"cover"`
	Description         *string `json:"description"`
	Price               *string `json:"price"`
	Available           *bool   `json:"available"`
	AllowOriginalRental *bool   `json:"allowOriginalRental"`
}

type RateGameReq struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}
