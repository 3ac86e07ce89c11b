package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/fatih/structs"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/luckybot/adminview/internal/model"
	"github.com/luckybot/adminview/pkg/api"
	"github.com/luckybot/adminview/pkg/errorx"
	"github.com/luckybot/adminview/pkg/xcontext"
)

// LotteryAPI is the remote lottery service. Every mutating call carries the
// edit token as a query parameter; a missing or rejected token surfaces as
// ERR_UNAUTHORIZED / ERR_TOKEN_INVALID.
type LotteryAPI interface {
	GetLottery(ctx context.Context, lotteryID string) (*entity.LotteryDetail, error)
	GetParticipants(ctx context.Context, lotteryID, token string) ([]entity.Participant, error)
	CreateLottery(ctx context.Context, lotteryID string, req *model.CreateLotteryRequest) (*entity.LotteryDetail, error)
	UpdateLottery(ctx context.Context, lotteryID, token string, patch *model.LotteryPatch) (*entity.LotteryDetail, error)
	JoinLottery(ctx context.Context, lotteryID string, req *model.JoinRequest) (*entity.Participant, error)
	AddParticipant(ctx context.Context, lotteryID, token string, userID int64) (*entity.Participant, error)
	UpdateParticipantWeight(ctx context.Context, lotteryID, token string, userID int64, weight int) error
	SetPrizeWeight(ctx context.Context, lotteryID, token string, userID, prizeID int64, weight int) error
	DeletePrizeWeight(ctx context.Context, lotteryID, token string, userID, prizeID int64) error
	RemoveParticipant(ctx context.Context, lotteryID, token string, userID int64) error
	Draw(ctx context.Context, lotteryID, token string) (*model.DrawResponse, error)
	GetResults(ctx context.Context, lotteryID string) (*model.ResultsResponse, error)
	GetStats(ctx context.Context) (*model.Stats, error)
}

type lotteryAPI struct {
	gen api.Generator
}

func NewLotteryAPI(gen api.Generator) *lotteryAPI {
	return &lotteryAPI{gen: gen}
}

func (c *lotteryAPI) GetLottery(ctx context.Context, lotteryID string) (*entity.LotteryDetail, error) {
	resp, err := c.gen.New("/api/lottery/%s", lotteryID).GET(ctx)
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	detail := entity.LotteryDetail{}
	if err := resp.Decode(&detail); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode lottery %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &detail, nil
}

func (c *lotteryAPI) GetParticipants(ctx context.Context, lotteryID, token string) ([]entity.Participant, error) {
	resp, err := c.gen.New("/api/lottery/%s/participants", lotteryID).
		GET(ctx, api.EditToken(token))
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	var participants []entity.Participant
	if err := resp.Decode(&participants); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode participants of %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return participants, nil
}

func (c *lotteryAPI) CreateLottery(
	ctx context.Context, lotteryID string, req *model.CreateLotteryRequest,
) (*entity.LotteryDetail, error) {
	body, err := toJSONBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.gen.New("/api/lottery/%s", lotteryID).Body(body).POST(ctx)
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	detail := entity.LotteryDetail{}
	if err := resp.Decode(&detail); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode created lottery %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &detail, nil
}

func (c *lotteryAPI) UpdateLottery(
	ctx context.Context, lotteryID, token string, patch *model.LotteryPatch,
) (*entity.LotteryDetail, error) {
	resp, err := c.gen.New("/api/lottery/%s", lotteryID).
		Body(api.JSON(structs.Map(patch))).
		PUT(ctx, api.EditToken(token))
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	detail := entity.LotteryDetail{}
	if err := resp.Decode(&detail); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode updated lottery %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &detail, nil
}

func (c *lotteryAPI) JoinLottery(
	ctx context.Context, lotteryID string, req *model.JoinRequest,
) (*entity.Participant, error) {
	body, err := toJSONBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.gen.New("/api/lottery/%s/join", lotteryID).Body(body).POST(ctx)
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	participant := entity.Participant{}
	if err := resp.Decode(&participant); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode joined participant of %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &participant, nil
}

func (c *lotteryAPI) AddParticipant(
	ctx context.Context, lotteryID, token string, userID int64,
) (*entity.Participant, error) {
	body, err := toJSONBody(model.AddParticipantRequest{UserID: userID})
	if err != nil {
		return nil, err
	}

	resp, err := c.gen.New("/api/lottery/%s/participants", lotteryID).
		Body(body).
		POST(ctx, api.EditToken(token))
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	participant := entity.Participant{}
	if err := resp.Decode(&participant); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode added participant of %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &participant, nil
}

func (c *lotteryAPI) UpdateParticipantWeight(
	ctx context.Context, lotteryID, token string, userID int64, weight int,
) error {
	body, err := toJSONBody(model.WeightRequest{Weight: weight})
	if err != nil {
		return err
	}

	resp, err := c.gen.New("/api/lottery/%s/participants/%s", lotteryID, formatUserID(userID)).
		Body(body).
		PUT(ctx, api.EditToken(token))
	return c.ensure(ctx, resp, err)
}

func (c *lotteryAPI) SetPrizeWeight(
	ctx context.Context, lotteryID, token string, userID, prizeID int64, weight int,
) error {
	body, err := toJSONBody(model.PrizeWeightRequest{PrizeID: prizeID, Weight: weight})
	if err != nil {
		return err
	}

	resp, err := c.gen.New("/api/lottery/%s/participants/%s/prize_weight",
		lotteryID, formatUserID(userID)).
		Body(body).
		POST(ctx, api.EditToken(token))
	return c.ensure(ctx, resp, err)
}

func (c *lotteryAPI) DeletePrizeWeight(
	ctx context.Context, lotteryID, token string, userID, prizeID int64,
) error {
	resp, err := c.gen.New("/api/lottery/%s/participants/%s/prize_weight/%d",
		lotteryID, formatUserID(userID), prizeID).
		DELETE(ctx, api.EditToken(token))
	return c.ensure(ctx, resp, err)
}

func (c *lotteryAPI) RemoveParticipant(
	ctx context.Context, lotteryID, token string, userID int64,
) error {
	resp, err := c.gen.New("/api/lottery/%s/participants/%s", lotteryID, formatUserID(userID)).
		DELETE(ctx, api.EditToken(token))
	return c.ensure(ctx, resp, err)
}

func (c *lotteryAPI) Draw(ctx context.Context, lotteryID, token string) (*model.DrawResponse, error) {
	resp, err := c.gen.New("/api/lottery/%s/draw", lotteryID).
		POST(ctx, api.EditToken(token))
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	result := model.DrawResponse{}
	if err := resp.Decode(&result); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode draw result of %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &result, nil
}

func (c *lotteryAPI) GetResults(ctx context.Context, lotteryID string) (*model.ResultsResponse, error) {
	resp, err := c.gen.New("/api/lottery/%s/results", lotteryID).GET(ctx)
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	results := model.ResultsResponse{}
	if err := resp.Decode(&results); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode results of %s: %v", lotteryID, err)
		return nil, errorx.Unknown
	}

	return &results, nil
}

func (c *lotteryAPI) GetStats(ctx context.Context) (*model.Stats, error) {
	resp, err := c.gen.New("/api/stats").GET(ctx)
	if err := c.ensure(ctx, resp, err); err != nil {
		return nil, err
	}

	stats := model.Stats{}
	if err := resp.Decode(&stats); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode stats: %v", err)
		return nil, errorx.Unknown
	}

	return &stats, nil
}

// ensure classifies the outcome of one attempt: cancellation passes through
// untouched, timeouts and transport failures become errorx values, and any
// non-2xx response is decoded into the service's {code, message} shape.
func (c *lotteryAPI) ensure(ctx context.Context, resp *api.Response, err error) error {
	if err != nil {
		if errorx.IsCanceled(err) {
			return err
		}

		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return errorx.New(errorx.CodeTimeout, "Request timed out")
		}

		xcontext.Logger(ctx).Errorf("Transport failure: %v", err)
		return errorx.Unknown
	}

	if resp.Code < http.StatusBadRequest {
		return nil
	}

	remote := errorx.Error{}
	if jsonErr := json.Unmarshal(resp.RawBody, &remote); jsonErr == nil && remote.Code != "" {
		return remote
	}

	switch resp.Code {
	case http.StatusUnauthorized:
		return errorx.New(errorx.CodeUnauthorized, "Unauthorized")
	case http.StatusNotFound:
		return errorx.New(errorx.CodeNotFound, "Not found")
	case http.StatusTooManyRequests:
		return errorx.New(errorx.CodeRateLimited, "Too many requests")
	}

	return errorx.Unknown
}

func toJSONBody(v any) (api.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	body := api.JSON{}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, err
	}

	return body, nil
}

func formatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
