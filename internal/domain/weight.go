package domain

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// WeightEngine maintains the two weight tiers of every participant: the
// global weight that applies to all prizes, and sparse per-prize overrides.
type WeightEngine struct {
	store *Store

	gateMu  sync.Mutex
	removal map[int64]*ConfirmGate
}

func NewWeightEngine(store *Store) *WeightEngine {
	return &WeightEngine{
		store:   store,
		removal: make(map[int64]*ConfirmGate),
	}
}

// SetGlobalWeight persists a participant's default weight. Zero excludes the
// participant from every prize. Values outside [0, max] are rejected before
// any network call, so the displayed weight stays at the last-known value.
func (e *WeightEngine) SetGlobalWeight(ctx context.Context, userID int64, weight int) error {
	limits := xcontext.Configs(ctx).Limits
	if weight < 0 || weight > limits.MaxGlobalWeight {
		return errorx.Validation("Weight must be between 0 and %d", limits.MaxGlobalWeight)
	}

	err := e.store.api.UpdateParticipantWeight(ctx, e.store.LotteryID(), e.store.Token(), userID, weight)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update weight of user %d: %v", userID, err)
		return err
	}

	// Overrides may be weight-relative; the refresh re-syncs them.
	e.store.SetParticipantWeightLocal(userID, weight)
	return e.store.Refresh(ctx)
}

// SetPrizeOverride persists a per-prize weight. Overrides only require
// non-negativity; the global cap deliberately does not apply to them.
func (e *WeightEngine) SetPrizeOverride(ctx context.Context, userID, prizeID int64, weight int) error {
	if weight < 0 {
		return errorx.Validation("Weight must be non-negative")
	}

	err := e.store.api.SetPrizeWeight(ctx, e.store.LotteryID(), e.store.Token(), userID, prizeID, weight)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set prize weight of user %d: %v", userID, err)
		return err
	}

	return e.store.Refresh(ctx)
}

// ClearPrizeOverride removes an override so the global weight applies again.
// The override row disappears from the snapshot immediately; a failed delete
// applies the compensating patch that exactly restores it.
func (e *WeightEngine) ClearPrizeOverride(ctx context.Context, userID, prizeID int64) error {
	undo := e.store.RemoveOverrideLocal(userID, prizeID)

	err := e.store.api.DeletePrizeWeight(ctx, e.store.LotteryID(), e.store.Token(), userID, prizeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete prize weight of user %d: %v", userID, err)
		undo()
		return err
	}

	return e.store.Refresh(ctx)
}

// AddParticipant inserts a user without requiring them to join through the
// bot. The raw identifier is validated locally first.
func (e *WeightEngine) AddParticipant(ctx context.Context, rawUserID string) error {
	rawUserID = strings.TrimSpace(rawUserID)
	if rawUserID == "" {
		return errorx.Validation("User ID is required")
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil || userID <= 0 {
		return errorx.Validation("User ID must be a positive number")
	}

	if _, err := e.store.api.AddParticipant(ctx, e.store.LotteryID(), e.store.Token(), userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add participant %d: %v", userID, err)
		return err
	}

	return e.store.Refresh(ctx)
}

// RemoveParticipant is irreversible and therefore gated: the first call arms
// a per-participant confirm gate and returns confirmed=false; the second
// call within the window performs the remote delete. On success the
// participant leaves the local snapshot immediately, no refresh needed.
func (e *WeightEngine) RemoveParticipant(ctx context.Context, userID int64) (confirmed bool, err error) {
	e.gateMu.Lock()
	gate, ok := e.removal[userID]
	if !ok {
		gate = NewConfirmGate(xcontext.Configs(ctx).Draw.ConfirmWindow.Duration)
		e.removal[userID] = gate
	}
	e.gateMu.Unlock()

	if !gate.Trigger() {
		return false, nil
	}

	undo := e.store.RemoveParticipantLocal(userID)
	if err := e.store.api.RemoveParticipant(ctx, e.store.LotteryID(), e.store.Token(), userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove participant %d: %v", userID, err)
		undo()
		return true, err
	}

	return true, nil
}

// OpenWeightSession starts an edit session for one participant. The visible
// override set is computed once at open time and not recomputed against
// later global-weight edits, so override rows do not vanish mid-edit.
func (e *WeightEngine) OpenWeightSession(userID int64) (*WeightSession, error) {
	state := e.store.State()

	idx := slices.IndexFunc(state.Participants, func(p entity.Participant) bool {
		return p.UserID == userID
	})
	if idx < 0 {
		return nil, errorx.Validation("No such participant")
	}

	participant := state.Participants[idx]

	var prizes []entity.Prize
	if state.Lottery != nil {
		prizes = state.Lottery.Prizes
	}

	visible := make([]int64, 0, len(participant.PrizeWeights))
	for prizeID, w := range participant.PrizeWeights {
		if w != participant.Weight {
			visible = append(visible, prizeID)
		}
	}
	slices.Sort(visible)

	return &WeightSession{
		engine:      e,
		participant: participant,
		prizes:      prizes,
		visible:     visible,
		overrides:   maps.Clone(participant.PrizeWeights),
	}, nil
}

// WeightSession is a per-participant editing view over both weight tiers.
type WeightSession struct {
	engine      *WeightEngine
	participant entity.Participant
	prizes      []entity.Prize
	visible     []int64
	overrides   map[int64]int
}

func (s *WeightSession) Participant() entity.Participant {
	return s.participant
}

func (s *WeightSession) Prizes() []entity.Prize {
	return s.prizes
}

// VisibleOverrides lists the prize ids whose override differed from the
// global weight when the session opened.
func (s *WeightSession) VisibleOverrides() []int64 {
	return slices.Clone(s.visible)
}

// Override returns the override for a prize and whether one is set; absent
// means the global weight applies.
func (s *WeightSession) Override(prizeID int64) (int, bool) {
	w, ok := s.overrides[prizeID]
	return w, ok
}

func (s *WeightSession) SetGlobalWeight(ctx context.Context, weight int) error {
	if err := s.engine.SetGlobalWeight(ctx, s.participant.UserID, weight); err != nil {
		return err
	}
	s.participant.Weight = weight
	return nil
}

func (s *WeightSession) SetOverride(ctx context.Context, prizeID int64, weight int) error {
	if err := s.engine.SetPrizeOverride(ctx, s.participant.UserID, prizeID, weight); err != nil {
		return err
	}
	if s.overrides == nil {
		s.overrides = make(map[int64]int)
	}
	s.overrides[prizeID] = weight
	if !slices.Contains(s.visible, prizeID) {
		s.visible = append(s.visible, prizeID)
		slices.Sort(s.visible)
	}
	return nil
}

func (s *WeightSession) ClearOverride(ctx context.Context, prizeID int64) error {
	if err := s.engine.ClearPrizeOverride(ctx, s.participant.UserID, prizeID); err != nil {
		return err
	}
	delete(s.overrides, prizeID)
	if idx := slices.Index(s.visible, prizeID); idx >= 0 {
		s.visible = slices.Delete(s.visible, idx, idx+1)
	}
	return nil
}
