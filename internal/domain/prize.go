package domain

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// PrizeRoster manages the prize list of one lottery. The service has no
// per-row endpoint: every mutation serializes the entire list into a single
// partial update, so a concurrent editor in another session can be silently
// overwritten. The confirmatory refresh at least converges this view to
// whatever the server kept.
type PrizeRoster struct {
	store *Store
}

func NewPrizeRoster(store *Store) *PrizeRoster {
	return &PrizeRoster{store: store}
}

type PrizeUpdate struct {
	Name     *string
	Quantity *int
}

func (r *PrizeRoster) Prizes() []entity.Prize {
	state := r.store.State()
	if state.Lottery == nil {
		return nil
	}
	return state.Lottery.Prizes
}

// Add validates and appends a prize, persisting the full list. The local
// list is only mutated by the refresh after a successful round-trip.
func (r *PrizeRoster) Add(ctx context.Context, name string, quantity int) error {
	name = strings.TrimSpace(name)
	if err := validatePrize(ctx, name, quantity); err != nil {
		return err
	}

	current := r.Prizes()
	limits := xcontext.Configs(ctx).Limits
	if len(current) >= limits.MaxPrizes {
		return errorx.Validation("At most %d prizes are allowed", limits.MaxPrizes)
	}

	next := append(slices.Clone(current), entity.Prize{Name: name, Quantity: quantity})
	return r.replace(ctx, next)
}

// Update merges fields into the prize at index and persists the full list.
// A merge that changes nothing issues no network call.
func (r *PrizeRoster) Update(ctx context.Context, index int, upd PrizeUpdate) error {
	current := r.Prizes()
	if index < 0 || index >= len(current) {
		return errorx.Validation("No such prize")
	}

	merged := current[index]
	if upd.Name != nil {
		merged.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Quantity != nil {
		merged.Quantity = *upd.Quantity
	}

	if err := validatePrize(ctx, merged.Name, merged.Quantity); err != nil {
		return err
	}

	if merged.Name == current[index].Name && merged.Quantity == current[index].Quantity {
		return nil
	}

	next := slices.Clone(current)
	next[index] = merged
	return r.replace(ctx, next)
}

// Delete removes the prize at index. A lottery always keeps at least one
// prize; dropping below that is rejected locally before any network call.
func (r *PrizeRoster) Delete(ctx context.Context, index int) error {
	current := r.Prizes()
	if index < 0 || index >= len(current) {
		return errorx.Validation("No such prize")
	}

	if len(current) <= 1 {
		return errorx.Validation("At least one prize must remain")
	}

	next := slices.Delete(slices.Clone(current), index, index+1)
	return r.replace(ctx, next)
}

func (r *PrizeRoster) replace(ctx context.Context, prizes []entity.Prize) error {
	inputs := make([]model.PrizeInput, 0, len(prizes))
	for _, p := range prizes {
		inputs = append(inputs, model.PrizeInput{Name: p.Name, Quantity: p.Quantity})
	}

	_, err := r.store.api.UpdateLottery(ctx, r.store.LotteryID(), r.store.Token(),
		&model.LotteryPatch{Prizes: inputs})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot replace prizes of %s: %v", r.store.LotteryID(), err)
		return err
	}

	return r.store.Refresh(ctx)
}

func validatePrize(ctx context.Context, name string, quantity int) error {
	limits := xcontext.Configs(ctx).Limits

	if name == "" {
		return errorx.Validation("Prize name is required")
	}
	if utf8.RuneCountInString(name) > limits.MaxPrizeName {
		return errorx.Validation("Prize name must not exceed %d characters", limits.MaxPrizeName)
	}
	if quantity < 1 {
		return errorx.Validation("Prize quantity must be at least 1")
	}
	if quantity > limits.MaxPrizeQuantity {
		return errorx.Validation("Prize quantity must not exceed %d", limits.MaxPrizeQuantity)
	}

	return nil
}
