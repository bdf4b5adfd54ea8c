// Package config provides Viper-based configuration loading for the textreality player.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Save backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output; empty means stderr so logs never mix with play text.
	File string `mapstructure:"file"`
}

// GameConfig holds per-session play settings.
type GameConfig struct {
	// Difficulty is "easy", "medium" or "hard".
	Difficulty string `mapstructure:"difficulty"`
	// Hints enables the hint offer in the console.
	Hints bool `mapstructure:"hints"`
	// WrapWidth is the console column at which replies are wrapped; 0 disables wrapping.
	WrapWidth int `mapstructure:"wrap_width"`
}

// ContentConfig locates the world and its supporting text.
type ContentConfig struct {
	// World is the path to the YAML world file.
	World string `mapstructure:"world"`
	// Strings is the path to the YAML content-strings file; empty means none.
	Strings string `mapstructure:"strings"`
	// ScriptDir overrides the world file's script_dir when non-empty.
	ScriptDir string `mapstructure:"script_dir"`
	// Compress stores content strings gzip-compressed in memory.
	Compress bool `mapstructure:"compress"`
}

// SavesConfig selects where saved input logs are kept.
type SavesConfig struct {
	// Backend is one of "none", "memory", "bolt" or "postgres".
	Backend string `mapstructure:"backend"`
	// BoltPath is the bbolt file used by the bolt backend.
	BoltPath string `mapstructure:"bolt_path"`
	// Slot is the default slot for save and restore.
	Slot string `mapstructure:"slot"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Content  ContentConfig  `mapstructure:"content"`
	Saves    SavesConfig    `mapstructure:"saves"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres save backend is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSaves(c.Saves); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Saves.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	validDifficulties := map[string]bool{"easy": true, "medium": true, "hard": true}
	if !validDifficulties[strings.ToLower(g.Difficulty)] {
		errs = append(errs, fmt.Sprintf("game.difficulty must be one of [easy, medium, hard], got %q", g.Difficulty))
	}
	if g.WrapWidth < 0 {
		errs = append(errs, fmt.Sprintf("game.wrap_width must be >= 0, got %d", g.WrapWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if strings.TrimSpace(c.World) == "" {
		return fmt.Errorf("content.world must not be empty")
	}
	return nil
}

func validateSaves(s SavesConfig) error {
	var errs []string
	validBackends := map[string]bool{BackendNone: true, BackendMemory: true, BackendBolt: true, BackendPostgres: true}
	if !validBackends[s.Backend] {
		errs = append(errs, fmt.Sprintf("saves.backend must be one of [none, memory, bolt, postgres], got %q", s.Backend))
	}
	if s.Backend == BackendBolt && s.BoltPath == "" {
		errs = append(errs, "saves.bolt_path must not be empty for the bolt backend")
	}
	if s.Backend != BackendNone && strings.TrimSpace(s.Slot) == "" {
		errs = append(errs, "saves.slot must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and TEXTREALITY_ environment
// overrides applied but no config file read. Callers may bind flags to it
// before calling LoadFromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TEXTREALITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("game.difficulty", "easy")
	v.SetDefault("game.hints", false)
	v.SetDefault("game.wrap_width", 80)

	v.SetDefault("content.world", "content/worlds/house.yaml")
	v.SetDefault("content.strings", "content/strings.yaml")
	v.SetDefault("content.script_dir", "")
	v.SetDefault("content.compress", false)

	v.SetDefault("saves.backend", BackendBolt)
	v.SetDefault("saves.bolt_path", "textreality.db")
	v.SetDefault("saves.slot", "autosave")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "textreality")
	v.SetDefault("database.password", "textreality")
	v.SetDefault("database.name", "textreality")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
