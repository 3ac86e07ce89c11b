package view

import (
	"context"

	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/internal/entity"
)

// PrizeResult groups the winners drawn for one prize.
type PrizeResult struct {
	Prize   entity.Prize
	Winners []entity.Winner
}

type ResultsState struct {
	Lottery entity.Lottery
	Results []PrizeResult
}

// LoadResults fetches the public results projection and groups winners per
// prize in roster order.
func LoadResults(ctx context.Context, api client.LotteryAPI, lotteryID string) (*ResultsState, error) {
	results, err := api.GetResults(ctx, lotteryID)
	if err != nil {
		return nil, err
	}

	byPrize := make(map[int64][]entity.Winner, len(results.Prizes))
	for _, w := range results.Winners {
		byPrize[w.PrizeID] = append(byPrize[w.PrizeID], w)
	}

	state := &ResultsState{Lottery: results.Lottery}
	for _, prize := range results.Prizes {
		state.Results = append(state.Results, PrizeResult{
			Prize:   prize,
			Winners: byPrize[prize.ID],
		})
	}

	return state, nil
}
