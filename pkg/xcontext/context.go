package xcontext

import (
	"context"
	"net/http"

	"github.com/luckybot/adminview/config"
	"github.com/luckybot/adminview/pkg/logger"
)

type contextKey string

const (
	loggerKey     = contextKey("logger")
	configsKey    = contextKey("configs")
	httpClientKey = contextKey("http_client")
)

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey).(logger.Logger); ok {
		return l
	}
	return logger.NewLogger(logger.INFO)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey, cfg)
}

func Configs(ctx context.Context) config.Configs {
	if cfg, ok := ctx.Value(configsKey).(config.Configs); ok {
		return cfg
	}
	return config.Default()
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey).(*http.Client); ok {
		return client
	}
	return http.DefaultClient
}
