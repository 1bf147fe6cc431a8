// Package config loads etere's settings: built-in defaults, then an
// optional YAML file, then ETERE_* environment variables, each layer
// overriding the last.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ETERE_"

// Config is the full runtime configuration.
type Config struct {
	// Player is the preferred player binary: mplayer, mpg123 or mpv.
	// Empty means "first one installed".
	Player string `koanf:"player"`

	CatalogURL string        `koanf:"catalog_url"`
	CacheDir   string        `koanf:"cache_dir"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`

	Notify        bool   `koanf:"notify"`
	NotifyCommand string `koanf:"notify_command"`

	TrackLog TrackLogConfig `koanf:"track_log"`

	// StationIDs are the jingle names the station-ID detector matches
	// track titles against.
	StationIDs []string `koanf:"station_ids"`

	HighlightStationID bool `koanf:"highlight_station_id"`
	Verbose            bool `koanf:"verbose"`

	LogFile  string `koanf:"log_file"`
	LogLevel string `koanf:"log_level"`
}

type TrackLogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
	Dedupe  bool   `koanf:"dedupe"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yml")
}

func baseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "etere")
	}
	return ".etere"
}

func defaults() *Config {
	base := baseDir()
	return &Config{
		CatalogURL:         "https://somafm.com/channels.json",
		CacheDir:           filepath.Join(base, "cache"),
		CacheTTL:           6 * time.Hour,
		Notify:             true,
		HighlightStationID: true,
		TrackLog: TrackLogConfig{
			Enabled: true,
			Path:    filepath.Join(base, "tracks.json"),
			Dedupe:  true,
		},
		StationIDs: []string{"SomaFM", "Station ID"},
		LogFile:    filepath.Join(base, "etere.log"),
		LogLevel:   "info",
	}
}

// Load builds the configuration. A missing config file is fine; a present
// but broken one is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// ETERE_TRACK_LOG_PATH → track_log.path, ETERE_PLAYER → player.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		s = strings.Replace(s, "track_log_", "track_log.", 1)
		return s
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Player != "" {
		switch cfg.Player {
		case "mplayer", "mpg123", "mpv":
		default:
			return nil, fmt.Errorf("unsupported player %q in config", cfg.Player)
		}
	}

	return &cfg, nil
}
