package main

import (
	"context"
	"net/http"

	"github.com/luckybot/adminview/config"
	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/pkg/api"
	"github.com/luckybot/adminview/pkg/logger"
	"github.com/luckybot/adminview/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

type adminctl struct {
	app     *cli.App
	configs config.Configs
	logger  logger.Logger
	api     client.LotteryAPI
}

// setup builds the tool context from the global flags: config file first,
// then flag overrides.
func (t *adminctl) setup(ct *cli.Context) (context.Context, error) {
	cfg, err := config.Load(ct.String("config"))
	if err != nil {
		return nil, err
	}

	if urls := ct.StringSlice("base-url"); len(urls) > 0 {
		cfg.Service.BaseURLs = urls
	}
	t.configs = cfg

	level := logger.INFO
	if ct.Bool("verbose") {
		level = logger.DEBUG
	}
	t.logger = logger.NewLogger(level)

	t.api = client.NewLotteryAPI(api.NewGenerator(cfg.Service.BaseURLs...))

	ctx := xcontext.WithConfigs(ct.Context, cfg)
	ctx = xcontext.WithLogger(ctx, t.logger)
	ctx = xcontext.WithHTTPClient(ctx, &http.Client{Timeout: cfg.Service.Timeout.Duration})
	return ctx, nil
}
