package entity

import (
	"time"

	"github.com/luckybot/adminview/pkg/enum"
)

type DrawMode string

var (
	DrawModeManual = enum.New(DrawMode("manual"))
	DrawModeTimed  = enum.New(DrawMode("timed"))
	DrawModeFull   = enum.New(DrawMode("full"))
)

type LotteryStatus string

var (
	LotteryDraft     = enum.New(LotteryStatus("draft"))
	LotteryActive    = enum.New(LotteryStatus("active"))
	LotteryCompleted = enum.New(LotteryStatus("completed"))
)

type Lottery struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	CreatorID         int64         `json:"creator_id"`
	DrawMode          DrawMode      `json:"draw_mode"`
	DrawTime          *time.Time    `json:"draw_time"`
	MaxEntries        *int          `json:"max_entries"`
	Status            LotteryStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	IsWeightsDisabled bool          `json:"is_weights_disabled"`
}

// Prize with a zero ID is a create-flow draft the server has not persisted
// yet.
type Prize struct {
	ID        int64  `json:"id"`
	LotteryID string `json:"lottery_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Participant struct {
	ID        int64     `json:"id"`
	LotteryID string    `json:"lottery_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Weight    int       `json:"weight"`
	// PrizeWeights is sparse: an absent prize id means the global Weight
	// applies.
	PrizeWeights map[int64]int `json:"prize_weights,omitempty"`
	JoinedAt     time.Time     `json:"joined_at"`
}

// EffectiveWeight resolves the weight used for one prize: the override when
// present, the global weight otherwise.
func (p Participant) EffectiveWeight(prizeID int64) int {
	if w, ok := p.PrizeWeights[prizeID]; ok {
		return w
	}
	return p.Weight
}

func (p Participant) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.FirstName != "" {
		if p.LastName != "" {
			return p.FirstName + " " + p.LastName
		}
		return p.FirstName
	}
	return ""
}

// Winner records are minted by the draw on the server and never change.
type Winner struct {
	ID            int64  `json:"id"`
	LotteryID     string `json:"lottery_id"`
	ParticipantID int64  `json:"participant_id"`
	PrizeID       int64  `json:"prize_id"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	PrizeName     string `json:"prize_name"`
}

// LotteryDetail is the flattened projection the service returns for a single
// lottery. Participants and Winners are present only when the caller holds
// edit authority or the draw has completed, respectively.
type LotteryDetail struct {
	Lottery
	Prizes           []Prize       `json:"prizes"`
	Participants     []Participant `json:"participants,omitempty"`
	ParticipantCount *int          `json:"participant_count,omitempty"`
	Winners          []Winner      `json:"winners,omitempty"`
}
