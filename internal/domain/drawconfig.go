package domain

import (
	"context"
	"time"

	"github.com/luckybot/adminview/config"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
)

// DrawConfig is a proposed draw-trigger configuration.
type DrawConfig struct {
	Mode       entity.DrawMode
	DrawTime   *time.Time
	MaxEntries *int
}

// ValidateDrawConfig checks the mode-specific preconditions. These bounds
// are a UX guard; the server re-enforces them authoritatively.
func ValidateDrawConfig(cfg DrawConfig, now time.Time, limits config.LimitConfigs) error {
	switch cfg.Mode {
	case entity.DrawModeTimed:
		if cfg.DrawTime == nil {
			return errorx.Validation("Draw time is required")
		}
		if !cfg.DrawTime.After(now) {
			return errorx.Validation("Draw time must be in the future")
		}
		if cfg.DrawTime.After(now.Add(limits.MaxTimedHorizon.Duration)) {
			days := int(limits.MaxTimedHorizon.Duration / (24 * time.Hour))
			return errorx.Validation("Draw time must be within %d days", days)
		}

	case entity.DrawModeFull:
		if cfg.MaxEntries == nil {
			return errorx.Validation("Max entries is required")
		}
		if *cfg.MaxEntries < 1 {
			return errorx.Validation("Max entries must be at least 1")
		}
		if *cfg.MaxEntries > limits.MaxFullEntries {
			return errorx.Validation("Max entries must not exceed %d", limits.MaxFullEntries)
		}

	case entity.DrawModeManual:
		// No extra fields.

	default:
		return errorx.Validation("Unknown draw mode")
	}

	return nil
}

// DrawConfigEditor applies draw-mode changes to an active lottery.
type DrawConfigEditor struct {
	store *Store
}

func NewDrawConfigEditor(store *Store) *DrawConfigEditor {
	return &DrawConfigEditor{store: store}
}

// Apply validates cfg and persists exactly the fields the new mode needs:
// switching away from timed omits the draw time, switching away from full
// omits max entries, and the service clears whatever the new mode does not
// carry. Stale fields from a previous mode never ride along.
func (e *DrawConfigEditor) Apply(ctx context.Context, cfg DrawConfig) error {
	state := e.store.State()
	if state.Lottery == nil || state.Lottery.Status != entity.LotteryActive {
		return errorx.Validation("Draw settings can only change while the lottery is active")
	}

	if err := ValidateDrawConfig(cfg, time.Now(), xcontext.Configs(ctx).Limits); err != nil {
		return err
	}

	mode := string(cfg.Mode)
	patch := &model.LotteryPatch{DrawMode: &mode}

	switch cfg.Mode {
	case entity.DrawModeTimed:
		drawTime := cfg.DrawTime.UTC().Format(time.RFC3339)
		patch.DrawTime = &drawTime
	case entity.DrawModeFull:
		patch.MaxEntries = cfg.MaxEntries
	}

	_, err := e.store.api.UpdateLottery(ctx, e.store.LotteryID(), e.store.Token(), patch)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update draw settings of %s: %v", e.store.LotteryID(), err)
		return err
	}

	return e.store.Refresh(ctx)
}
