package domain

import (
	"context"
	"sync"

	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
)

// DrawController guards the irreversible draw behind a two-phase gate. A
// failed call always lands back in idle; a failure response is trusted to
// mean "not drawn".
type DrawController struct {
	store *Store

	mu       sync.Mutex
	gate     *ConfirmGate
	inFlight bool

	// onSuccess typically navigates to the results view.
	onSuccess func([]entity.Winner)
}

func NewDrawController(store *Store, onSuccess func([]entity.Winner)) *DrawController {
	return &DrawController{store: store, onSuccess: onSuccess}
}

// Enabled reports whether the draw control is usable: at least one
// participant and no draw already in flight.
func (c *DrawController) Enabled() bool {
	c.mu.Lock()
	inFlight := c.inFlight
	c.mu.Unlock()

	if inFlight {
		return false
	}

	return len(c.store.State().Participants) > 0
}

func (c *DrawController) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate != nil && c.gate.Armed()
}

// Trigger implements the arm/confirm cycle. The first call arms the control
// and issues nothing; a second call within the confirm window performs the
// draw. With no confirmation inside the window the control disarms itself.
func (c *DrawController) Trigger(ctx context.Context) (confirmed bool, winners []entity.Winner, err error) {
	if !c.Enabled() {
		return false, nil, nil
	}

	c.mu.Lock()
	if c.gate == nil {
		c.gate = NewConfirmGate(xcontext.Configs(ctx).Draw.ConfirmWindow.Duration)
	}
	gate := c.gate
	c.mu.Unlock()

	if !gate.Trigger() {
		return false, nil, nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return false, nil, nil
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	result, err := c.store.api.Draw(ctx, c.store.LotteryID(), c.store.Token())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot draw lottery %s: %v", c.store.LotteryID(), err)
		gate.Disarm()
		return true, nil, err
	}

	if !result.Success {
		gate.Disarm()
		return true, nil, errorx.Unknown
	}

	if c.onSuccess != nil {
		c.onSuccess(result.Winners)
	}

	return true, result.Winners, nil
}
