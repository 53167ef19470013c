package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Storage     StorageConfig
	Provider    ProviderConfig
	Pipeline    PipelineConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir          string
	RosterPath       string
	CachePath        string
	WatchRoster      bool
	HistoryEnabled   bool
	HistoryPath      string
	HistoryRetention time.Duration
	LogTiming        bool
}

type ProviderConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

type PipelineConfig struct {
	MinFetchDelay  time.Duration
	CacheMaxAge    time.Duration
	RefreshOnStart bool
}

// localProviderURL is the development fallback for the scholarly bridge.
const localProviderURL = "http://localhost:8840"

func Load() (Config, error) {
	return load(true)
}

// LoadForTool loads config for CLI tools that can run without a provider
// endpoint configured.
func LoadForTool() (Config, error) {
	return load(false)
}

func load(requireProviderURL bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("scholardash_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("scholardash_port", 8080)
	v.SetDefault("scholardash_data_dir", "data")
	v.SetDefault("scholardash_roster_file", "")
	v.SetDefault("scholardash_cache_file", "")
	v.SetDefault("scholardash_watch_roster", true)
	v.SetDefault("scholardash_history_enabled", true)
	v.SetDefault("scholardash_history_db", "")
	v.SetDefault("scholardash_history_retention", time.Duration(0))
	v.SetDefault("scholardash_db_timing", false)
	v.SetDefault("scholardash_provider_url", "")
	v.SetDefault("scholardash_provider_timeout", 30*time.Second)
	v.SetDefault("scholardash_provider_retries", 3)
	v.SetDefault("scholardash_provider_user_agent", "")
	v.SetDefault("scholardash_fetch_min_delay", 2*time.Second)
	v.SetDefault("scholardash_cache_max_age", 24*time.Hour)
	v.SetDefault("scholardash_refresh_on_start", false)

	env := resolveEnvironment(v)
	port := v.GetInt("scholardash_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid SCHOLARDASH_PORT: %d", port)
	}

	dataDir := strings.TrimSpace(v.GetString("scholardash_data_dir"))
	if dataDir == "" {
		dataDir = "data"
	}
	rosterPath := strings.TrimSpace(v.GetString("scholardash_roster_file"))
	if rosterPath == "" {
		rosterPath = filepath.Join(dataDir, "faculty.json")
	}
	cachePath := strings.TrimSpace(v.GetString("scholardash_cache_file"))
	if cachePath == "" {
		cachePath = filepath.Join(dataDir, "cache.json")
	}
	historyPath := strings.TrimSpace(v.GetString("scholardash_history_db"))
	if historyPath == "" {
		historyPath = filepath.Join(dataDir, "history")
	}

	retention := v.GetDuration("scholardash_history_retention")
	if retention < 0 {
		retention = 0
	}

	timeout := v.GetDuration("scholardash_provider_timeout")
	if timeout < time.Second {
		timeout = time.Second
	}
	if timeout > 5*time.Minute {
		timeout = 5 * time.Minute
	}

	retries := v.GetInt("scholardash_provider_retries")
	if retries < 0 {
		retries = 0
	}
	if retries > 10 {
		retries = 10
	}

	minDelay := v.GetDuration("scholardash_fetch_min_delay")
	if minDelay < 0 {
		minDelay = 0
	}
	if minDelay > 5*time.Minute {
		minDelay = 5 * time.Minute
	}

	maxAge := v.GetDuration("scholardash_cache_max_age")
	if maxAge < time.Minute {
		maxAge = time.Minute
	}
	if maxAge > 30*24*time.Hour {
		maxAge = 30 * 24 * time.Hour
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Storage: StorageConfig{
			DataDir:          dataDir,
			RosterPath:       rosterPath,
			CachePath:        cachePath,
			WatchRoster:      v.GetBool("scholardash_watch_roster"),
			HistoryEnabled:   v.GetBool("scholardash_history_enabled"),
			HistoryPath:      historyPath,
			HistoryRetention: retention,
			LogTiming:        v.GetBool("scholardash_db_timing"),
		},
		Provider: ProviderConfig{
			BaseURL:    strings.TrimSpace(v.GetString("scholardash_provider_url")),
			Timeout:    timeout,
			MaxRetries: retries,
			UserAgent:  strings.TrimSpace(v.GetString("scholardash_provider_user_agent")),
		},
		Pipeline: PipelineConfig{
			MinFetchDelay:  minDelay,
			CacheMaxAge:    maxAge,
			RefreshOnStart: v.GetBool("scholardash_refresh_on_start"),
		},
	}

	if requireProviderURL && !cfg.IsLocalDevelopment() && cfg.Provider.BaseURL == "" {
		return Config{}, fmt.Errorf("SCHOLARDASH_PROVIDER_URL is required outside local/dev environments")
	}
	if cfg.IsLocalDevelopment() && cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = localProviderURL
	}

	return cfg, nil
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"scholardash_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
