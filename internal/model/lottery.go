package model

import (
	"github.com/luckybot/adminview/internal/entity"
)

type PrizeInput struct {
	Name     string `json:"name" structs:"name"`
	Quantity int    `json:"quantity" structs:"quantity"`
}

type CreateLotteryRequest struct {
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	DrawMode          string       `json:"draw_mode"`
	DrawTime          *string      `json:"draw_time,omitempty"`
	MaxEntries        *int         `json:"max_entries,omitempty"`
	Prizes            []PrizeInput `json:"prizes"`
	CreatorID         int64        `json:"creator_id"`
	IsWeightsDisabled bool         `json:"is_weights_disabled"`
}

// LotteryPatch is a partial update. Nil fields are never serialized, which is
// what keeps stale mode fields off the wire when the draw mode changes: the
// service derives the cleared fields from the new mode.
type LotteryPatch struct {
	Title             *string      `structs:"title,omitempty"`
	Description       *string      `structs:"description,omitempty"`
	DrawMode          *string      `structs:"draw_mode,omitempty"`
	DrawTime          *string      `structs:"draw_time,omitempty"`
	MaxEntries        *int         `structs:"max_entries,omitempty"`
	Prizes            []PrizeInput `structs:"prizes,omitempty"`
	IsWeightsDisabled *bool        `structs:"is_weights_disabled,omitempty"`
}

type JoinRequest struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AddParticipantRequest struct {
	UserID int64 `json:"user_id"`
}

type WeightRequest struct {
	Weight int `json:"weight"`
}

type PrizeWeightRequest struct {
	PrizeID int64 `json:"prize_id"`
	Weight  int   `json:"weight"`
}

type DrawResponse struct {
	Success bool            `json:"success"`
	Winners []entity.Winner `json:"winners"`
}

type ResultsResponse struct {
	Lottery entity.Lottery  `json:"lottery"`
	Prizes  []entity.Prize  `json:"prizes"`
	Winners []entity.Winner `json:"winners"`
}

type Stats struct {
	TotalLotteries     int `json:"total_lotteries"`
	ActiveLotteries    int `json:"active_lotteries"`
	CompletedLotteries int `json:"completed_lotteries"`
	TotalParticipants  int `json:"total_participants"`
}
