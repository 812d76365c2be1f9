package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the app. Every field can be set from
// the environment (or .env files locally) and from an optional CONFIG_FILE.
type Config struct {
	Addr     string
	App      string
	LogLevel string
	Lambda   bool

	PostgresDSN           string
	PostgresMigrationsDir string
	DBPath                string
	DBMigrationsDir       string

	Sim    SimConfig
	Squad  SquadConfig
	Season SeasonConfig
}

type SimConfig struct {
	OpponentBase   float64
	OpponentSpread float64
	Distribution   string
	TieBreak       string
	RevealDelay    time.Duration
	Seed           int64
}

type SquadConfig struct {
	BenchSize       int
	StrictPositions bool
	SaveTimeout     time.Duration
}

type SeasonConfig struct {
	AutoAdvanceInterval time.Duration
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.App, "prod")
}

// Load reads .env files (outside Lambda), applies defaults and environment
// overrides and validates the result.
func Load() (*Config, error) {
	lambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if !lambda {
		_ = godotenv.Load(".env", ".env.local")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("config_file")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:                  v.GetString("addr"),
		App:                   v.GetString("app"),
		LogLevel:              v.GetString("log_level"),
		Lambda:                lambda,
		PostgresDSN:           strings.TrimSpace(v.GetString("postgres_dsn")),
		PostgresMigrationsDir: v.GetString("postgres_migrations_dir"),
		DBPath:                strings.TrimSpace(v.GetString("db_path")),
		DBMigrationsDir:       v.GetString("db_migrations_dir"),
		Sim: SimConfig{
			OpponentBase:   v.GetFloat64("sim_opponent_base"),
			OpponentSpread: v.GetFloat64("sim_opponent_spread"),
			Distribution:   strings.ToLower(v.GetString("sim_distribution")),
			TieBreak:       strings.ToLower(v.GetString("sim_tie_break")),
			RevealDelay:    v.GetDuration("sim_reveal_delay"),
			Seed:           v.GetInt64("sim_seed"),
		},
		Squad: SquadConfig{
			BenchSize:       v.GetInt("squad_bench_size"),
			StrictPositions: v.GetBool("squad_strict_positions"),
			SaveTimeout:     v.GetDuration("squad_save_timeout"),
		},
		Season: SeasonConfig{
			AutoAdvanceInterval: v.GetDuration("season_auto_advance_interval"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("app", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("config_file", "")

	v.SetDefault("postgres_dsn", "")
	v.SetDefault("postgres_migrations_dir", "")
	v.SetDefault("db_path", "")
	v.SetDefault("db_migrations_dir", "")

	v.SetDefault("sim_opponent_base", 80.0)
	v.SetDefault("sim_opponent_spread", 10.0)
	v.SetDefault("sim_distribution", "flat")
	v.SetDefault("sim_tie_break", "none")
	v.SetDefault("sim_reveal_delay", "0s")
	v.SetDefault("sim_seed", 0)

	v.SetDefault("squad_bench_size", 9)
	v.SetDefault("squad_strict_positions", false)
	v.SetDefault("squad_save_timeout", "5s")

	v.SetDefault("season_auto_advance_interval", "0s")
}

func (c *Config) validate() error {
	if c.Sim.OpponentBase < 1 || c.Sim.OpponentBase > 100 {
		return fmt.Errorf("SIM_OPPONENT_BASE must be within 1..100, got %v", c.Sim.OpponentBase)
	}
	if c.Sim.OpponentSpread < 0 {
		return fmt.Errorf("SIM_OPPONENT_SPREAD must not be negative, got %v", c.Sim.OpponentSpread)
	}
	switch c.Sim.Distribution {
	case "flat", "gaussian":
	default:
		return fmt.Errorf("SIM_DISTRIBUTION must be flat or gaussian, got %q", c.Sim.Distribution)
	}
	switch c.Sim.TieBreak {
	case "none", "reroll":
	default:
		return fmt.Errorf("SIM_TIE_BREAK must be none or reroll, got %q", c.Sim.TieBreak)
	}
	if c.Sim.RevealDelay < 0 {
		return fmt.Errorf("SIM_REVEAL_DELAY must not be negative, got %s", c.Sim.RevealDelay)
	}
	if c.Squad.BenchSize < 1 {
		return fmt.Errorf("SQUAD_BENCH_SIZE must be positive, got %d", c.Squad.BenchSize)
	}
	if c.Squad.SaveTimeout <= 0 {
		return fmt.Errorf("SQUAD_SAVE_TIMEOUT must be positive, got %s", c.Squad.SaveTimeout)
	}
	if c.Season.AutoAdvanceInterval < 0 {
		return fmt.Errorf("SEASON_AUTO_ADVANCE_INTERVAL must not be negative, got %s", c.Season.AutoAdvanceInterval)
	}
	return nil
}
