package domain

import (
	"context"
	"sync"
	"time"

	"github.com/luckybot/adminview/config"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// windowCtx shortens the confirm window so gate timeouts are observable in
// tests.
func windowCtx(window time.Duration) context.Context {
	cfg := config.Default()
	cfg.Draw.ConfirmWindow = config.Duration{Duration: window}
	return xcontext.WithConfigs(context.Background(), cfg)
}

// fakeAPI is a stateful in-memory stand-in for the remote lottery service.
// Method overrides let individual tests script failures or block calls.
type fakeAPI struct {
	mu           sync.Mutex
	detail       entity.LotteryDetail
	participants []entity.Participant
	nextPrizeID  int64

	calls      map[string]int
	lastPatch  *model.LotteryPatch
	lastCreate *model.CreateLotteryRequest

	getLotteryFn func(ctx context.Context) (*entity.LotteryDetail, error)
	drawFn       func(ctx context.Context) (*model.DrawResponse, error)
	failWith     map[string]error
}

func newFakeAPI(detail entity.LotteryDetail, participants []entity.Participant) *fakeAPI {
	return &fakeAPI{
		detail:       detail,
		participants: participants,
		nextPrizeID:  1000,
		calls:        make(map[string]int),
		failWith:     make(map[string]error),
	}
}

func activeLottery(prizes ...entity.Prize) entity.LotteryDetail {
	return entity.LotteryDetail{
		Lottery: entity.Lottery{
			ID:       "abc123",
			Title:    "Launch party",
			Status:   entity.LotteryActive,
			DrawMode: entity.DrawModeManual,
		},
		Prizes: prizes,
	}
}

func (f *fakeAPI) record(method string) error {
	f.calls[method]++
	return f.failWith[method]
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) snapshot() *entity.LotteryDetail {
	detail := f.detail
	detail.Prizes = slices.Clone(f.detail.Prizes)
	return &detail
}

func (f *fakeAPI) GetLottery(ctx context.Context, lotteryID string) (*entity.LotteryDetail, error) {
	f.mu.Lock()
	err := f.record("GetLottery")
	fn := f.getLotteryFn
	detail := f.snapshot()
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (f *fakeAPI) GetParticipants(ctx context.Context, lotteryID, token string) ([]entity.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetParticipants"); err != nil {
		return nil, err
	}
	return slices.Clone(f.participants), nil
}

func (f *fakeAPI) CreateLottery(
	ctx context.Context, lotteryID string, req *model.CreateLotteryRequest,
) (*entity.LotteryDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = req
	if err := f.record("CreateLottery"); err != nil {
		return nil, err
	}

	f.detail.ID = lotteryID
	f.detail.Title = req.Title
	f.detail.Description = req.Description
	f.detail.Status = entity.LotteryDraft
	f.detail.Prizes = nil
	for _, p := range req.Prizes {
		f.nextPrizeID++
		f.detail.Prizes = append(f.detail.Prizes, entity.Prize{
			ID: f.nextPrizeID, LotteryID: lotteryID, Name: p.Name, Quantity: p.Quantity,
		})
	}
	return f.snapshot(), nil
}

func (f *fakeAPI) UpdateLottery(
	ctx context.Context, lotteryID, token string, patch *model.LotteryPatch,
) (*entity.LotteryDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	if err := f.record("UpdateLottery"); err != nil {
		return nil, err
	}

	if patch.DrawMode != nil {
		f.detail.DrawMode = entity.DrawMode(*patch.DrawMode)
		f.detail.DrawTime = nil
		f.detail.MaxEntries = nil
	}
	if patch.MaxEntries != nil {
		f.detail.MaxEntries = patch.MaxEntries
	}
	if len(patch.Prizes) > 0 {
		f.detail.Prizes = nil
		for _, p := range patch.Prizes {
			f.nextPrizeID++
			f.detail.Prizes = append(f.detail.Prizes, entity.Prize{
				ID: f.nextPrizeID, LotteryID: lotteryID, Name: p.Name, Quantity: p.Quantity,
			})
		}
	}
	return f.snapshot(), nil
}

func (f *fakeAPI) JoinLottery(
	ctx context.Context, lotteryID string, req *model.JoinRequest,
) (*entity.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("JoinLottery"); err != nil {
		return nil, err
	}

	p := entity.Participant{UserID: req.UserID, Username: req.Username, Weight: 1}
	f.participants = append(f.participants, p)
	return &p, nil
}

func (f *fakeAPI) AddParticipant(
	ctx context.Context, lotteryID, token string, userID int64,
) (*entity.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddParticipant"); err != nil {
		return nil, err
	}

	p := entity.Participant{UserID: userID, Weight: 1}
	f.participants = append(f.participants, p)
	return &p, nil
}

func (f *fakeAPI) UpdateParticipantWeight(
	ctx context.Context, lotteryID, token string, userID int64, weight int,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateParticipantWeight"); err != nil {
		return err
	}

	for i := range f.participants {
		if f.participants[i].UserID == userID {
			f.participants[i].Weight = weight
			return nil
		}
	}
	return errorx.New(errorx.CodeNotFound, "Participant not found")
}

func (f *fakeAPI) SetPrizeWeight(
	ctx context.Context, lotteryID, token string, userID, prizeID int64, weight int,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SetPrizeWeight"); err != nil {
		return err
	}

	for i := range f.participants {
		if f.participants[i].UserID == userID {
			if f.participants[i].PrizeWeights == nil {
				f.participants[i].PrizeWeights = make(map[int64]int)
			}
			f.participants[i].PrizeWeights[prizeID] = weight
			return nil
		}
	}
	return errorx.New(errorx.CodeNotFound, "Participant not found")
}

func (f *fakeAPI) DeletePrizeWeight(
	ctx context.Context, lotteryID, token string, userID, prizeID int64,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeletePrizeWeight"); err != nil {
		return err
	}

	for i := range f.participants {
		if f.participants[i].UserID == userID {
			delete(f.participants[i].PrizeWeights, prizeID)
			return nil
		}
	}
	return errorx.New(errorx.CodeNotFound, "Participant not found")
}

func (f *fakeAPI) RemoveParticipant(
	ctx context.Context, lotteryID, token string, userID int64,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveParticipant"); err != nil {
		return err
	}

	idx := slices.IndexFunc(f.participants, func(p entity.Participant) bool {
		return p.UserID == userID
	})
	if idx < 0 {
		return errorx.New(errorx.CodeNotFound, "Participant not found")
	}
	f.participants = slices.Delete(f.participants, idx, idx+1)
	return nil
}

func (f *fakeAPI) Draw(ctx context.Context, lotteryID, token string) (*model.DrawResponse, error) {
	f.mu.Lock()
	err := f.record("Draw")
	fn := f.drawFn
	if fn != nil {
		f.mu.Unlock()
		return fn(ctx)
	}
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var winners []entity.Winner
	for _, prize := range f.detail.Prizes {
		if len(f.participants) == 0 {
			break
		}
		p := f.participants[0]
		winners = append(winners, entity.Winner{
			LotteryID: lotteryID, PrizeID: prize.ID, UserID: p.UserID,
			Username: p.Username, PrizeName: prize.Name,
		})
	}
	f.detail.Status = entity.LotteryCompleted
	f.detail.Winners = winners
	return &model.DrawResponse{Success: true, Winners: winners}, nil
}

func (f *fakeAPI) GetResults(ctx context.Context, lotteryID string) (*model.ResultsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetResults"); err != nil {
		return nil, err
	}

	return &model.ResultsResponse{
		Lottery: f.detail.Lottery,
		Prizes:  slices.Clone(f.detail.Prizes),
		Winners: slices.Clone(f.detail.Winners),
	}, nil
}

func (f *fakeAPI) GetStats(ctx context.Context) (*model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetStats"); err != nil {
		return nil, err
	}
	return &model.Stats{TotalLotteries: 1}, nil
}
