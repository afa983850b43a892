package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	DefaultAPIBaseURL = "http://localhost:8080"
)

type StoreConfig struct {
	Driver      string `env:"VENTURES_STORE" yaml:"driver"`
	DatabaseURL string `env:"DATABASE_URL" yaml:"database_url"`
	SQLitePath  string `env:"VENTURES_SQLITE_PATH" yaml:"sqlite_path"`
	DataDir     string `env:"VENTURES_DATA_DIR" yaml:"data_dir"`
}

type APIConfig struct {
	Addr                 string `env:"VENTURES_API_ADDR" envDefault:":8080"`
	Port                 string `env:"PORT"`
	Token                string `env:"VENTURES_API_TOKEN"`
	ResolvePrerequisites bool   `env:"VENTURES_RESOLVE_PREREQUISITES" envDefault:"false"`
	Store                StoreConfig
}

type WorkerConfig struct {
	Schedule             string `env:"VENTURES_AUTOPILOT_CRON" envDefault:"@every 1m"`
	RunOnce              bool   `env:"VENTURES_WORKER_RUN_ONCE" envDefault:"false"`
	ResolvePrerequisites bool   `env:"VENTURES_RESOLVE_PREREQUISITES" envDefault:"false"`
	DiscordBotToken      string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID     string `env:"DISCORD_CHANNEL_ID"`
	Store                StoreConfig
}

// CLIConfig is ~/.vt/config.yaml. Remote play is on when remote is set or an
// api_base_url is configured.
type CLIConfig struct {
	APIBaseURL           string      `yaml:"api_base_url"`
	APIToken             string      `yaml:"api_token"`
	Remote               bool        `yaml:"remote"`
	ResolvePrerequisites bool        `yaml:"resolve_prerequisites"`
	Store                StoreConfig `yaml:"store"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadAPIFromEnv() (APIConfig, error) {
	var cfg APIConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if port := strings.TrimSpace(cfg.Port); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Store = cfg.Store.withDefaults("data")
	if err := cfg.Store.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Schedule = strings.TrimSpace(cfg.Schedule)
	if cfg.Schedule == "" {
		return cfg, fmt.Errorf("VENTURES_AUTOPILOT_CRON is required")
	}
	if (cfg.DiscordBotToken == "") != (cfg.DiscordChannelID == "") {
		return cfg, fmt.Errorf("DISCORD_BOT_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	cfg.Store = cfg.Store.withDefaults("data")
	if cfg.Store.Driver == StoreMemory {
		return cfg, fmt.Errorf("VENTURES_STORE=memory cannot be shared with other processes")
	}
	if err := cfg.Store.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultCLIDir is ~/.vt, home of the CLI config and the local file store.
func DefaultCLIDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vt"), nil
}

// LoadCLI reads the YAML file at path, then applies environment variable overrides.
// A missing file is not an error.
func LoadCLI(path string) (CLIConfig, error) {
	cfg := CLIConfig{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("VT_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("VT_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("VT_REMOTE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Remote = b
		}
	}
	if v := os.Getenv("VT_STORE"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("VT_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("VT_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("VT_DATABASE_URL"); v != "" {
		cfg.Store.DatabaseURL = v
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.Store = cfg.Store.withDefaults(filepath.Dir(path))
	if err := cfg.Store.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c CLIConfig) UseRemote() bool {
	return c.Remote || c.APIBaseURL != ""
}

func (c CLIConfig) BaseURL() string {
	if c.APIBaseURL == "" {
		return DefaultAPIBaseURL
	}
	return c.APIBaseURL
}

func (c StoreConfig) withDefaults(dataDir string) StoreConfig {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = StoreFile
	}
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.DataDir == "" {
		c.DataDir = dataDir
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "ventures.db")
	}
	return c
}

func (c StoreConfig) Validate() error {
	switch c.Driver {
	case StoreMemory:
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("store data_dir is required for the file store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("store sqlite_path is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want memory, file, sqlite or postgres)", c.Driver)
	}
	return nil
}
