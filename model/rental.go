package model

import "time"

type RentalStatus string

const (
	RentalPending  RentalStatus = "PENDING"
	RentalActive   RentalStatus = "ACTIVE"
	RentalReturned RentalStatus = "RETURNED"
	RentalCanceled RentalStatus = "CANCELED"
)

// Finalized reports whether the status is terminal.
func (s RentalStatus) Finalized() bool {
	return s == RentalReturned || s == RentalCanceled
}

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalPending, RentalActive, RentalReturned, RentalCanceled:
		return true
	}
	return false
}

type Rental struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	GameID    int64        `json:"game_id"`
	CopyID    *int64       `json:"copy_id,omitempty"`
	Status    RentalStatus `json:"status"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
}
