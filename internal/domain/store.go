package domain

import (
	"context"
	"sync"

	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// StoreState is the render-ready snapshot of one lottery view.
type StoreState struct {
	Loading      bool
	Error        string
	Lottery      *entity.LotteryDetail
	Participants []entity.Participant
}

// Store owns the canonical in-memory copy of a lottery and its participant
// list. Editors read from it and write through the remote service, then ask
// for a refresh; they never mutate the snapshot themselves except through the
// compensating-patch helpers below.
type Store struct {
	mu sync.Mutex

	api       client.LotteryAPI
	lotteryID string
	token     string

	// seq tags every load; only the most recently issued load may apply
	// its response.
	seq    uint64
	cancel context.CancelFunc

	state StoreState

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(StoreState)
}

func NewStore(api client.LotteryAPI, lotteryID, token string) *Store {
	return &Store{
		api:       api,
		lotteryID: lotteryID,
		token:     token,
		state:     StoreState{Loading: true},
		subs:      make(map[int]func(StoreState)),
	}
}

func (s *Store) LotteryID() string {
	return s.lotteryID
}

func (s *Store) Token() string {
	return s.token
}

// State returns a copy of the current snapshot.
func (s *Store) State() StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() StoreState {
	state := s.state
	state.Participants = slices.Clone(s.state.Participants)
	if s.state.Lottery != nil {
		detail := *s.state.Lottery
		detail.Prizes = slices.Clone(s.state.Lottery.Prizes)
		state.Lottery = &detail
	}
	return state
}

// Subscribe registers fn for every state change and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(StoreState)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) broadcast(state StoreState) {
	s.subMu.Lock()
	subs := make([]func(StoreState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Load fetches the lottery and, when an edit token is held, its participant
// list. A newer Load supersedes any in-flight one: the older response is
// discarded silently and never sets an error state.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	firstLoad := s.state.Lottery == nil
	if firstLoad {
		s.state.Loading = true
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(state)

	lottery, lotteryErr := s.api.GetLottery(ctx, s.lotteryID)

	var participants []entity.Participant
	var participantsErr error
	if lotteryErr == nil && s.token != "" {
		participants, participantsErr = s.api.GetParticipants(ctx, s.lotteryID, s.token)
	}

	err := lotteryErr
	if err == nil {
		err = participantsErr
	}

	s.mu.Lock()
	if seq != s.seq {
		// Superseded by a newer load.
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		if errorx.IsCanceled(err) {
			s.mu.Unlock()
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot load lottery %s: %v", s.lotteryID, err)
		s.state.Loading = false
		s.state.Error = errorx.Describe(err)
		state := s.snapshotLocked()
		s.mu.Unlock()

		s.broadcast(state)
		return err
	}

	s.state.Loading = false
	s.state.Error = ""
	s.state.Lottery = lottery
	s.state.Participants = participants
	state = s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(state)
	return nil
}

// Refresh re-runs the same fetch after a mutation confirmed server-side.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Close cancels any in-flight load, for navigation away from the view.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// RemoveParticipantLocal drops a participant from the snapshot ahead of the
// confirmatory refresh and returns a patch that exactly undoes it.
func (s *Store) RemoveParticipantLocal(userID int64) (undo func()) {
	s.mu.Lock()

	idx := slices.IndexFunc(s.state.Participants, func(p entity.Participant) bool {
		return p.UserID == userID
	})
	if idx < 0 {
		s.mu.Unlock()
		return func() {}
	}

	removed := s.state.Participants[idx]
	s.state.Participants = slices.Delete(slices.Clone(s.state.Participants), idx, idx+1)
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.broadcast(state)

	return func() {
		s.mu.Lock()

		// The snapshot may have been replaced while the delete was in
		// flight, so re-locate instead of trusting the captured index.
		participants := slices.Clone(s.state.Participants)
		back := slices.IndexFunc(participants, func(p entity.Participant) bool {
			return p.UserID == userID
		})
		if back >= 0 {
			s.mu.Unlock()
			return
		}

		at := idx
		if at > len(participants) {
			at = len(participants)
		}
		s.state.Participants = slices.Insert(participants, at, removed)
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.broadcast(state)
	}
}

// SetParticipantWeightLocal records a confirmed global weight without waiting
// for the refresh.
func (s *Store) SetParticipantWeightLocal(userID int64, weight int) {
	s.mu.Lock()
	for i := range s.state.Participants {
		if s.state.Participants[i].UserID == userID {
			s.state.Participants[i].Weight = weight
			break
		}
	}
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.broadcast(state)
}

// RemoveOverrideLocal drops a per-prize override from the snapshot and
// returns the compensating patch for a failed delete.
func (s *Store) RemoveOverrideLocal(userID, prizeID int64) (undo func()) {
	s.mu.Lock()

	idx := slices.IndexFunc(s.state.Participants, func(p entity.Participant) bool {
		return p.UserID == userID
	})
	if idx < 0 {
		s.mu.Unlock()
		return func() {}
	}

	prev, had := s.state.Participants[idx].PrizeWeights[prizeID]
	if !had {
		s.mu.Unlock()
		return func() {}
	}

	weights := make(map[int64]int, len(s.state.Participants[idx].PrizeWeights))
	for k, v := range s.state.Participants[idx].PrizeWeights {
		weights[k] = v
	}
	delete(weights, prizeID)
	s.state.Participants[idx].PrizeWeights = weights
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.broadcast(state)

	return func() {
		s.mu.Lock()
		for i := range s.state.Participants {
			if s.state.Participants[i].UserID == userID {
				weights := make(map[int64]int, len(s.state.Participants[i].PrizeWeights)+1)
				for k, v := range s.state.Participants[i].PrizeWeights {
					weights[k] = v
				}
				weights[prizeID] = prev
				s.state.Participants[i].PrizeWeights = weights
				break
			}
		}
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.broadcast(state)
	}
}
