package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string

	Service ServiceConfigs
	Limits  LimitConfigs
	Draw    DrawConfigs
}

type ServiceConfigs struct {
	// BaseURLs lists the lottery service origins. More than one entry
	// enables client-side failover.
	BaseURLs []string `toml:"base_urls"`
	Timeout  Duration `toml:"timeout"`
}

// LimitConfigs carries the advisory client-side bounds. The server enforces
// its own authoritative copies of these.
type LimitConfigs struct {
	MaxTitle         int      `toml:"max_title"`
	MaxDescription   int      `toml:"max_description"`
	MaxPrizeName     int      `toml:"max_prize_name"`
	MaxPrizeQuantity int      `toml:"max_prize_quantity"`
	MaxPrizes        int      `toml:"max_prizes"`
	MaxFullEntries   int      `toml:"max_full_entries"`
	MaxGlobalWeight  int      `toml:"max_global_weight"`
	MaxTimedHorizon  Duration `toml:"max_timed_horizon"`
}

type DrawConfigs struct {
	// ConfirmWindow is how long the draw button stays armed before it
	// falls back to idle.
	ConfirmWindow Duration `toml:"confirm_window"`
}

// Duration wraps time.Duration so TOML values like "30s" decode directly.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Default() Configs {
	return Configs{
		Env: "prod",
		Service: ServiceConfigs{
			BaseURLs: []string{"http://localhost:8080"},
			Timeout:  Duration{30 * time.Second},
		},
		Limits: LimitConfigs{
			MaxTitle:         20,
			MaxDescription:   100,
			MaxPrizeName:     10,
			MaxPrizeQuantity: 20,
			MaxPrizes:        10,
			MaxFullEntries:   100,
			MaxGlobalWeight:  100,
			MaxTimedHorizon:  Duration{14 * 24 * time.Hour},
		},
		Draw: DrawConfigs{
			ConfirmWindow: Duration{3 * time.Second},
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
