package view

import (
	"context"

	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/internal/domain"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/pkg/math"
)

// Toaster is the notification sink the page reports outcomes to. The themed
// implementation lives with the rendering surface, not here.
type Toaster interface {
	Success(msg string)
	Error(msg string)
}

// Viewport answers the responsive breakpoint query: bottom-sheet drawers on
// narrow screens, modal dialogs otherwise.
type Viewport interface {
	Mobile() bool
}

type nopToaster struct{}

func (nopToaster) Success(string) {}
func (nopToaster) Error(string)   {}

// EditPage binds the store and the editing engines of one lottery into
// render-ready state plus action callbacks for the page layer.
type EditPage struct {
	store    *domain.Store
	roster   *domain.PrizeRoster
	weights  *domain.WeightEngine
	drawCfg  *domain.DrawConfigEditor
	drawCtl  *domain.DrawController
	toast    Toaster
	viewport Viewport

	invalidLink bool
}

func NewEditPage(
	api client.LotteryAPI,
	lotteryID, token string,
	toast Toaster,
	viewport Viewport,
	onDrawSuccess func([]entity.Winner),
) *EditPage {
	if toast == nil {
		toast = nopToaster{}
	}

	store := domain.NewStore(api, lotteryID, token)
	return &EditPage{
		store:       store,
		roster:      domain.NewPrizeRoster(store),
		weights:     domain.NewWeightEngine(store),
		drawCfg:     domain.NewDrawConfigEditor(store),
		drawCtl:     domain.NewDrawController(store, onDrawSuccess),
		toast:       toast,
		viewport:    viewport,
		invalidLink: token == "",
	}
}

// EditPageState is everything the rendering surface needs.
type EditPageState struct {
	// InvalidLink means no edit token was supplied: rendered as "invalid
	// link", not as a load failure.
	InvalidLink bool
	Loading     bool
	Error       string

	Lottery      *entity.LotteryDetail
	Participants []entity.Participant

	// NotPublished and Completed replace the editing surfaces for draft
	// and completed lotteries.
	NotPublished bool
	Completed    bool
	CanEdit      bool

	// WeightsEnabled is false when the creator disabled weighting; the
	// weighting affordances are hidden, not erased.
	WeightsEnabled bool

	DrawEnabled bool
	DrawArmed   bool

	// EntriesRemaining is meaningful in full mode only.
	EntriesRemaining int

	Mobile bool
}

func (p *EditPage) Load(ctx context.Context) error {
	if p.invalidLink {
		return nil
	}
	return p.store.Load(ctx)
}

func (p *EditPage) Refresh(ctx context.Context) error {
	if p.invalidLink {
		return nil
	}
	return p.store.Refresh(ctx)
}

func (p *EditPage) Close() {
	p.store.Close()
}

// Subscribe forwards store changes so the surface can re-render.
func (p *EditPage) Subscribe(fn func(EditPageState)) func() {
	return p.store.Subscribe(func(domain.StoreState) {
		fn(p.State())
	})
}

func (p *EditPage) State() EditPageState {
	state := p.store.State()

	out := EditPageState{
		InvalidLink:  p.invalidLink,
		Loading:      state.Loading,
		Error:        state.Error,
		Lottery:      state.Lottery,
		Participants: state.Participants,
		DrawArmed:    p.drawCtl.Armed(),
	}
	if p.viewport != nil {
		out.Mobile = p.viewport.Mobile()
	}

	if state.Lottery == nil {
		return out
	}

	out.NotPublished = state.Lottery.Status == entity.LotteryDraft
	out.Completed = state.Lottery.Status == entity.LotteryCompleted
	out.CanEdit = state.Lottery.Status == entity.LotteryActive
	out.WeightsEnabled = out.CanEdit && !state.Lottery.IsWeightsDisabled
	out.DrawEnabled = out.CanEdit && p.drawCtl.Enabled()

	if state.Lottery.DrawMode == entity.DrawModeFull && state.Lottery.MaxEntries != nil {
		out.EntriesRemaining = math.MaxInt(*state.Lottery.MaxEntries-len(state.Participants), 0)
	}

	return out
}

// Action callbacks. Failures are reported through the toast sink; a
// cancelled request surfaces nowhere.

func (p *EditPage) AddPrize(ctx context.Context, name string, quantity int) {
	p.report(p.roster.Add(ctx, name, quantity), "Prize added")
}

func (p *EditPage) UpdatePrize(ctx context.Context, index int, upd domain.PrizeUpdate) {
	p.report(p.roster.Update(ctx, index, upd), "Prize updated")
}

func (p *EditPage) DeletePrize(ctx context.Context, index int) {
	p.report(p.roster.Delete(ctx, index), "Prize deleted")
}

func (p *EditPage) SetGlobalWeight(ctx context.Context, userID int64, weight int) {
	p.report(p.weights.SetGlobalWeight(ctx, userID, weight), "Weight updated")
}

func (p *EditPage) SetPrizeOverride(ctx context.Context, userID, prizeID int64, weight int) {
	p.report(p.weights.SetPrizeOverride(ctx, userID, prizeID, weight), "Weight updated")
}

func (p *EditPage) ClearPrizeOverride(ctx context.Context, userID, prizeID int64) {
	p.report(p.weights.ClearPrizeOverride(ctx, userID, prizeID), "Weight override removed")
}

func (p *EditPage) AddParticipant(ctx context.Context, rawUserID string) {
	p.report(p.weights.AddParticipant(ctx, rawUserID), "Participant added")
}

func (p *EditPage) RemoveParticipant(ctx context.Context, userID int64) {
	confirmed, err := p.weights.RemoveParticipant(ctx, userID)
	if !confirmed {
		return
	}
	p.report(err, "Participant removed")
}

func (p *EditPage) ApplyDrawConfig(ctx context.Context, cfg domain.DrawConfig) {
	p.report(p.drawCfg.Apply(ctx, cfg), "Draw settings updated")
}

func (p *EditPage) TriggerDraw(ctx context.Context) {
	confirmed, _, err := p.drawCtl.Trigger(ctx)
	if !confirmed {
		return
	}
	p.report(err, "Draw completed")
}

func (p *EditPage) OpenWeightSession(userID int64) (*domain.WeightSession, error) {
	return p.weights.OpenWeightSession(userID)
}

func (p *EditPage) report(err error, success string) {
	if err == nil {
		p.toast.Success(success)
		return
	}
	if errorx.IsCanceled(err) {
		return
	}
	p.toast.Error(errorx.Describe(err))
}
