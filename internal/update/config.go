package update

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyWindow      = "window"
	KeyChartWidth  = "chart.width"
	KeyChartHeight = "chart.height"
	KeyLogFile     = "log.file"
	KeyLogLevel    = "log.level"
	KeyStatusTTL   = "status.timeout"

	EnvPrefix = "SUGARDIFF"
)

type RuntimeConfig struct {
	WindowSize  int
	ChartWidth  int
	ChartHeight int
	LogFile     string
	LogLevel    string
	// StatusTimeout is how long a status message stays before it clears.
	StatusTimeout time.Duration
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		WindowSize:  6,
		ChartWidth:  60,
		ChartHeight: 12,
		LogFile:     "",
		LogLevel:    "info",

		StatusTimeout: 4 * time.Second,
	}
}

// NewViper returns a viper instance that reads SUGARDIFF_* environment
// variables, e.g. SUGARDIFF_CHART_WIDTH for chart.width.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func RuntimeConfigFromViper(v *viper.Viper, base RuntimeConfig) RuntimeConfig {
	cfg := base
	if n, ok := getInt(v, KeyWindow); ok && n > 0 {
		cfg.WindowSize = n
	}
	if n, ok := getInt(v, KeyChartWidth); ok && n > 0 {
		cfg.ChartWidth = n
	}
	if n, ok := getInt(v, KeyChartHeight); ok && n > 0 {
		cfg.ChartHeight = n
	}
	if s := strings.TrimSpace(v.GetString(KeyLogFile)); s != "" {
		cfg.LogFile = s
	}
	if s := strings.TrimSpace(v.GetString(KeyLogLevel)); s != "" {
		cfg.LogLevel = strings.ToLower(s)
	}
	if v.IsSet(KeyStatusTTL) {
		if d := v.GetDuration(KeyStatusTTL); d > 0 {
			cfg.StatusTimeout = d
		}
	}
	return cfg
}

func getInt(v *viper.Viper, key string) (int, bool) {
	if !v.IsSet(key) {
		return 0, false
	}
	return v.GetInt(key), true
}
