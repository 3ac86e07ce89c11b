package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// CreateFlow is the draft builder used before a lottery is published. Draft
// prizes have no ids until the server persists them.
type CreateFlow struct {
	api       client.LotteryAPI
	lotteryID string
	creatorID int64

	Title             string
	Description       string
	Mode              entity.DrawMode
	DrawTime          *time.Time
	MaxEntries        *int
	Prizes            []model.PrizeInput
	IsWeightsDisabled bool
	AcceptedTerms     bool
}

func NewCreateFlow(api client.LotteryAPI, lotteryID string, creatorID int64) *CreateFlow {
	return &CreateFlow{
		api:       api,
		lotteryID: lotteryID,
		creatorID: creatorID,
		Mode:      entity.DrawModeManual,
		Prizes:    []model.PrizeInput{{Name: "", Quantity: 1}},
	}
}

// AddPrize appends a draft prize row, bounded by the advisory prize count.
func (f *CreateFlow) AddPrize(ctx context.Context) error {
	limits := xcontext.Configs(ctx).Limits
	if len(f.Prizes) >= limits.MaxPrizes {
		return errorx.Validation("At most %d prizes are allowed", limits.MaxPrizes)
	}

	f.Prizes = append(f.Prizes, model.PrizeInput{Name: "", Quantity: 1})
	return nil
}

// RemovePrize drops a draft row; the draft always keeps at least one.
func (f *CreateFlow) RemovePrize(index int) error {
	if index < 0 || index >= len(f.Prizes) {
		return errorx.Validation("No such prize")
	}
	if len(f.Prizes) <= 1 {
		return errorx.Validation("At least one prize must remain")
	}

	f.Prizes = slices.Delete(f.Prizes, index, index+1)
	return nil
}

// Validate checks the whole draft against the advisory limits.
func (f *CreateFlow) Validate(ctx context.Context, now time.Time) error {
	limits := xcontext.Configs(ctx).Limits

	if f.lotteryID == "" || f.creatorID == 0 {
		return errorx.Validation("Invalid creation link")
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		return errorx.Validation("Title is required")
	}
	if utf8.RuneCountInString(title) > limits.MaxTitle {
		return errorx.Validation("Title must not exceed %d characters", limits.MaxTitle)
	}
	if utf8.RuneCountInString(f.Description) > limits.MaxDescription {
		return errorx.Validation("Description must not exceed %d characters", limits.MaxDescription)
	}

	for _, p := range f.Prizes {
		if err := validatePrize(ctx, strings.TrimSpace(p.Name), p.Quantity); err != nil {
			return err
		}
	}
	if len(f.Prizes) > limits.MaxPrizes {
		return errorx.Validation("At most %d prizes are allowed", limits.MaxPrizes)
	}

	cfg := DrawConfig{Mode: f.Mode, DrawTime: f.DrawTime, MaxEntries: f.MaxEntries}
	if err := ValidateDrawConfig(cfg, now, limits); err != nil {
		return err
	}

	if !f.AcceptedTerms {
		return errorx.Validation("The terms of service must be accepted")
	}

	return nil
}

// Submit validates the draft and creates the lottery.
func (f *CreateFlow) Submit(ctx context.Context) (*entity.LotteryDetail, error) {
	if err := f.Validate(ctx, time.Now()); err != nil {
		return nil, err
	}

	req := &model.CreateLotteryRequest{
		Title:             strings.TrimSpace(f.Title),
		Description:       f.Description,
		DrawMode:          string(f.Mode),
		CreatorID:         f.creatorID,
		IsWeightsDisabled: f.IsWeightsDisabled,
	}

	for _, p := range f.Prizes {
		req.Prizes = append(req.Prizes, model.PrizeInput{
			Name:     strings.TrimSpace(p.Name),
			Quantity: p.Quantity,
		})
	}

	switch f.Mode {
	case entity.DrawModeTimed:
		drawTime := f.DrawTime.UTC().Format(time.RFC3339)
		req.DrawTime = &drawTime
	case entity.DrawModeFull:
		req.MaxEntries = f.MaxEntries
	}

	detail, err := f.api.CreateLottery(ctx, f.lotteryID, req)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create lottery %s: %v", f.lotteryID, err)
		return nil, err
	}

	return detail, nil
}
