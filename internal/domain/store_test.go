package domain

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func TestStoreLoad(t *testing.T) {
	fake := newFakeAPI(
		activeLottery(entity.Prize{ID: 1, Name: "Mug", Quantity: 2}),
		[]entity.Participant{{UserID: 7, Username: "alice", Weight: 1}},
	)
	store := NewStore(fake, "abc123", "tok")

	require.NoError(t, store.Load(context.Background()))

	state := store.State()
	require.False(t, state.Loading)
	require.Empty(t, state.Error)
	require.NotNil(t, state.Lottery)
	require.Equal(t, "Launch party", state.Lottery.Title)
	require.Len(t, state.Participants, 1)
	require.Equal(t, 1, fake.count("GetLottery"))
	require.Equal(t, 1, fake.count("GetParticipants"))
}

func TestStoreLoadWithoutToken(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "")

	require.NoError(t, store.Load(context.Background()))

	require.Equal(t, 1, fake.count("GetLottery"))
	require.Equal(t, 0, fake.count("GetParticipants"),
		"participant list must not be fetched without an edit token")
}

func TestStoreStaleLoadDiscarded(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var call int32
	fake.getLotteryFn = func(ctx context.Context) (*entity.LotteryDetail, error) {
		if atomic.AddInt32(&call, 1) == 1 {
			close(started)
			<-release
			detail := activeLottery()
			detail.Title = "stale"
			return &detail, nil
		}
		detail := activeLottery()
		detail.Title = "fresh"
		return &detail, nil
	}

	store := NewStore(fake, "abc123", "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Load(context.Background())
	}()
	<-started

	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, "fresh", store.State().Lottery.Title)

	// The superseded response arrives last and must change nothing.
	close(release)
	<-done

	state := store.State()
	require.Equal(t, "fresh", state.Lottery.Title)
	require.Empty(t, state.Error)
}

func TestStoreFirstLoadFailure(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	fake.failWith["GetLottery"] = errorx.New(errorx.CodeNotFound, "Lottery not found")

	store := NewStore(fake, "abc123", "")
	err := store.Load(context.Background())
	require.Error(t, err)

	state := store.State()
	require.False(t, state.Loading)
	require.Equal(t, "Record not found", state.Error)
	require.Nil(t, state.Lottery)
}

func TestStoreRefreshFailureKeepsData(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "")
	require.NoError(t, store.Load(context.Background()))

	fake.failWith["GetLottery"] = errorx.Unknown
	require.Error(t, store.Refresh(context.Background()))

	state := store.State()
	require.NotNil(t, state.Lottery, "a failed refresh keeps the last good snapshot")
	require.NotEmpty(t, state.Error)
}

func TestStoreCanceledLoadIsSilent(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	fake.getLotteryFn = func(ctx context.Context) (*entity.LotteryDetail, error) {
		return nil, context.Canceled
	}

	store := NewStore(fake, "abc123", "")
	require.NoError(t, store.Load(context.Background()))
	require.Empty(t, store.State().Error)
}

func TestStoreSubscribe(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "")

	var notified int
	unsubscribe := store.Subscribe(func(StoreState) { notified++ })

	require.NoError(t, store.Load(context.Background()))
	require.GreaterOrEqual(t, notified, 1)

	seen := notified
	unsubscribe()
	require.NoError(t, store.Refresh(context.Background()))
	require.Equal(t, seen, notified)
}

func TestStoreRemoveParticipantLocalUndo(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "tok")
	store.state.Participants = []entity.Participant{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "bob"},
	}

	undo := store.RemoveParticipantLocal(1)
	require.Len(t, store.State().Participants, 1)
	require.Equal(t, int64(2), store.State().Participants[0].UserID)

	undo()
	participants := store.State().Participants
	require.Len(t, participants, 2)
	require.Equal(t, int64(1), participants[0].UserID)
}

func TestStoreRemoveParticipantLocalUndoAfterSnapshotChange(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "tok")
	store.state.Participants = []entity.Participant{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "bob"},
		{UserID: 3, Username: "carol"},
	}

	undo := store.RemoveParticipantLocal(3)

	// A refresh lands while the delete is in flight and replaces the
	// snapshot with a shorter list; the captured index is now stale.
	store.state.Participants = nil

	undo()
	participants := store.State().Participants
	require.Len(t, participants, 1)
	require.Equal(t, int64(3), participants[0].UserID)
}

func TestStoreRemoveParticipantLocalUndoSkipsPresent(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "tok")
	store.state.Participants = []entity.Participant{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "bob"},
	}

	undo := store.RemoveParticipantLocal(2)

	// The interleaved refresh already restored the server's copy; the
	// compensating patch must not insert a duplicate.
	store.state.Participants = []entity.Participant{
		{UserID: 2, Username: "bob"},
		{UserID: 1, Username: "alice"},
	}

	undo()
	require.Len(t, store.State().Participants, 2)
}

func TestStoreRemoveOverrideLocalUndo(t *testing.T) {
	fake := newFakeAPI(activeLottery(), nil)
	store := NewStore(fake, "abc123", "tok")
	store.state.Participants = []entity.Participant{
		{UserID: 1, Weight: 3, PrizeWeights: map[int64]int{10: 7}},
	}

	undo := store.RemoveOverrideLocal(1, 10)
	_, ok := store.State().Participants[0].PrizeWeights[10]
	require.False(t, ok)

	undo()
	w, ok := store.State().Participants[0].PrizeWeights[10]
	require.True(t, ok)
	require.Equal(t, 7, w)
}
