package rental

type CreateRentalReq struct {
	GameID  int64  `json:"gameId" validate:"required,gt=0"`
	CopyID  *int64 `json:"copyId"`
	EndDate string `json:"endDate" validate:"required"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required"`
}
