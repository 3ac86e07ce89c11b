package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luckybot/adminview/internal/domain"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/internal/view"
	"github.com/luckybot/adminview/pkg/enum"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/urfave/cli/v2"
)

func (t *adminctl) openStore(ct *cli.Context) (context.Context, *domain.Store, error) {
	ctx, err := t.setup(ct)
	if err != nil {
		return nil, nil, err
	}

	store := domain.NewStore(t.api, ct.String("lottery"), ct.String("token"))
	if err := store.Load(ctx); err != nil {
		return nil, nil, errors.New(errorx.Describe(err))
	}

	return ctx, store, nil
}

func (t *adminctl) showLottery(ct *cli.Context) error {
	_, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	state := store.State()
	l := state.Lottery
	fmt.Printf("%s  %q  status=%s  mode=%s\n", l.ID, l.Title, l.Status, l.DrawMode)
	if l.DrawMode == entity.DrawModeTimed && l.DrawTime != nil {
		fmt.Printf("  draws at %s\n", l.DrawTime.Local().Format(time.RFC1123))
	}
	if l.DrawMode == entity.DrawModeFull && l.MaxEntries != nil {
		fmt.Printf("  draws at %d entries\n", *l.MaxEntries)
	}

	fmt.Println("prizes:")
	for i, p := range l.Prizes {
		fmt.Printf("  [%d] %s x%d\n", i, p.Name, p.Quantity)
	}

	for _, p := range state.Participants {
		fmt.Printf("participant %d (%s) weight=%d overrides=%d\n",
			p.UserID, p.DisplayName(), p.Weight, len(p.PrizeWeights))
	}
	return nil
}

func (t *adminctl) showResults(ct *cli.Context) error {
	ctx, err := t.setup(ct)
	if err != nil {
		return err
	}

	results, err := view.LoadResults(ctx, t.api, ct.String("lottery"))
	if err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Printf("%s  %q\n", results.Lottery.ID, results.Lottery.Title)
	for _, r := range results.Results {
		fmt.Printf("%s x%d:\n", r.Prize.Name, r.Prize.Quantity)
		for _, w := range r.Winners {
			fmt.Printf("  %d (%s)\n", w.UserID, w.Username)
		}
	}
	return nil
}

func (t *adminctl) showStats(ct *cli.Context) error {
	ctx, err := t.setup(ct)
	if err != nil {
		return err
	}

	stats, err := t.api.GetStats(ctx)
	if err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Printf("lotteries: %d total, %d active, %d completed; participants: %d\n",
		stats.TotalLotteries, stats.ActiveLotteries,
		stats.CompletedLotteries, stats.TotalParticipants)
	return nil
}

func (t *adminctl) join(ct *cli.Context) error {
	ctx, err := t.setup(ct)
	if err != nil {
		return err
	}

	participant, err := t.api.JoinLottery(ctx, ct.String("lottery"), &model.JoinRequest{
		UserID:   ct.Int64("user"),
		Username: ct.String("username"),
	})
	if err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Printf("joined as %d (%s)\n", participant.UserID, participant.DisplayName())
	return nil
}

func (t *adminctl) draw(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	ctl := domain.NewDrawController(store, nil)
	if !ctl.Enabled() {
		return errors.New("the draw is unavailable: no participants")
	}

	confirmed, winners, err := ctl.Trigger(ctx)
	if !confirmed {
		if !ct.Bool("yes") && !confirm("Draw now? This cannot be undone") {
			return nil
		}
		confirmed, winners, err = ctl.Trigger(ctx)
	}
	if err != nil {
		return errors.New(errorx.Describe(err))
	}
	if !confirmed {
		return errors.New("the draw was not confirmed in time")
	}

	for _, w := range winners {
		fmt.Printf("winner: %d (%s) -> %s\n", w.UserID, w.Username, w.PrizeName)
	}
	return nil
}

func (t *adminctl) addPrize(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	roster := domain.NewPrizeRoster(store)
	if err := roster.Add(ctx, ct.String("name"), ct.Int("quantity")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("prize added")
	return nil
}

func (t *adminctl) updatePrize(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	upd := domain.PrizeUpdate{}
	if ct.IsSet("name") {
		name := ct.String("name")
		upd.Name = &name
	}
	if ct.IsSet("quantity") {
		quantity := ct.Int("quantity")
		upd.Quantity = &quantity
	}

	roster := domain.NewPrizeRoster(store)
	if err := roster.Update(ctx, ct.Int("index"), upd); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("prize updated")
	return nil
}

func (t *adminctl) deletePrize(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	roster := domain.NewPrizeRoster(store)
	if err := roster.Delete(ctx, ct.Int("index")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("prize deleted")
	return nil
}

func (t *adminctl) addParticipant(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	engine := domain.NewWeightEngine(store)
	if err := engine.AddParticipant(ctx, ct.String("user")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("participant added")
	return nil
}

func (t *adminctl) removeParticipant(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	engine := domain.NewWeightEngine(store)
	userID := ct.Int64("user")

	confirmed, err := engine.RemoveParticipant(ctx, userID)
	if !confirmed {
		if !ct.Bool("yes") && !confirm("Remove this participant? This cannot be undone") {
			return nil
		}
		confirmed, err = engine.RemoveParticipant(ctx, userID)
	}
	if err != nil {
		return errors.New(errorx.Describe(err))
	}
	if !confirmed {
		return errors.New("removal was not confirmed in time")
	}

	fmt.Println("participant removed")
	return nil
}

func (t *adminctl) setWeight(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	engine := domain.NewWeightEngine(store)
	if err := engine.SetGlobalWeight(ctx, ct.Int64("user"), ct.Int("weight")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("weight updated")
	return nil
}

func (t *adminctl) setOverride(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	engine := domain.NewWeightEngine(store)
	if err := engine.SetPrizeOverride(ctx, ct.Int64("user"), ct.Int64("prize"), ct.Int("weight")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("override set")
	return nil
}

func (t *adminctl) clearOverride(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	engine := domain.NewWeightEngine(store)
	if err := engine.ClearPrizeOverride(ctx, ct.Int64("user"), ct.Int64("prize")); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("override removed")
	return nil
}

func (t *adminctl) setDrawConfig(ct *cli.Context) error {
	ctx, store, err := t.openStore(ct)
	if err != nil {
		return err
	}

	mode, err := enum.ToEnum[entity.DrawMode](ct.String("mode"))
	if err != nil {
		return fmt.Errorf("mode must be one of %v", enum.Strings[entity.DrawMode]())
	}

	cfg := domain.DrawConfig{Mode: mode}
	if ct.IsSet("at") {
		cfg.DrawTime = ct.Timestamp("at")
	}
	if ct.IsSet("entries") {
		entries := ct.Int("entries")
		cfg.MaxEntries = &entries
	}

	editor := domain.NewDrawConfigEditor(store)
	if err := editor.Apply(ctx, cfg); err != nil {
		return errors.New(errorx.Describe(err))
	}

	fmt.Println("draw settings updated")
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
