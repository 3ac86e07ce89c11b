package domain

import (
	"sync"
	"time"
)

// ConfirmGate is the two-phase commit affordance in front of irreversible
// actions: the first activation arms it, a second activation inside the
// window confirms, and the window elapsing quietly disarms it. Purely a UI
// guard, nothing is enforced server-side.
type ConfirmGate struct {
	mu     sync.Mutex
	window time.Duration
	armed  bool
	timer  *time.Timer
}

func NewConfirmGate(window time.Duration) *ConfirmGate {
	return &ConfirmGate{window: window}
}

// Trigger reports whether the action is confirmed. The first call arms the
// gate and returns false; a second call within the window returns true and
// resets the gate.
func (g *ConfirmGate) Trigger() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.armed {
		g.disarmLocked()
		return true
	}

	g.armed = true
	g.timer = time.AfterFunc(g.window, g.Disarm)
	return false
}

func (g *ConfirmGate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

func (g *ConfirmGate) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmLocked()
}

func (g *ConfirmGate) disarmLocked() {
	g.armed = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
