/*
Package config manages TOML config for linkmatch tools.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/linkmatch/internal/utils"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/charmbracelet/log"
)

var ErrInvalid = errors.New("invalid config")

// Config holds the entire config structure
type Config struct {
	Matcher MatcherConfig `toml:"matcher"`
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
	Batch   BatchConfig   `toml:"batch"`
}

// MatcherConfig tunes the match tables and the match-list arena.
type MatcherConfig struct {
	InitialListSize int    `toml:"initial_list_size"`
	GrowthFactor    int    `toml:"growth_factor"`
	Verbosity       int    `toml:"verbosity"`
	LowerMatch      string `toml:"lower_match"`
}

// SearchConfig bounds linkage counting.
type SearchConfig struct {
	MaxWords  int `toml:"max_words"`
	TimeoutMS int `toml:"timeout_ms"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	CacheSize int `toml:"cache_size"`
}

// BatchConfig holds batch counting options.
type BatchConfig struct {
	Workers int `toml:"workers"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "linkmatch")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "linkmatch")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/linkmatch/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			InitialListSize: fastmatch.DefaultInitialListSize,
			GrowthFactor:    fastmatch.DefaultGrowthFactor,
			Verbosity:       0,
			LowerMatch:      "strict",
		},
		Search: SearchConfig{
			MaxWords:  250,
			TimeoutMS: 30000,
		},
		Server: ServerConfig{
			CacheSize: 64,
		},
		Batch: BatchConfig{
			Workers: 0,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Values that fail validation fall
// back to their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse keeps every section that decodes and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "matcher"); ok {
		extractMatcherConfig(section, &config.Matcher)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "batch"); ok {
		extractBatchConfig(section, &config.Batch)
	}
	return config, nil
}

func extractMatcherConfig(data map[string]any, m *MatcherConfig) {
	if val, ok := utils.ExtractInt(data, "initial_list_size"); ok {
		m.InitialListSize = val
	}
	if val, ok := utils.ExtractInt(data, "growth_factor"); ok {
		m.GrowthFactor = val
	}
	if val, ok := utils.ExtractInt(data, "verbosity"); ok {
		m.Verbosity = val
	}
	if val, ok := utils.ExtractString(data, "lower_match"); ok {
		m.LowerMatch = val
	}
}

func extractSearchConfig(data map[string]any, s *SearchConfig) {
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		s.MaxWords = val
	}
	if val, ok := utils.ExtractInt(data, "timeout_ms"); ok {
		s.TimeoutMS = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractBatchConfig(data map[string]any, b *BatchConfig) {
	if val, ok := utils.ExtractInt(data, "workers"); ok {
		b.Workers = val
	}
}

// sanitize resets out of range values to their defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if err := c.Validate(); err == nil {
		return
	}
	if c.Matcher.InitialListSize <= 0 {
		log.Warnf("matcher.initial_list_size %d is not positive, using %d", c.Matcher.InitialListSize, def.Matcher.InitialListSize)
		c.Matcher.InitialListSize = def.Matcher.InitialListSize
	}
	if c.Matcher.GrowthFactor < 2 {
		log.Warnf("matcher.growth_factor %d is below 2, using %d", c.Matcher.GrowthFactor, def.Matcher.GrowthFactor)
		c.Matcher.GrowthFactor = def.Matcher.GrowthFactor
	}
	if _, err := connector.ParseLowerMatcher(c.Matcher.LowerMatch); err != nil {
		log.Warnf("matcher.lower_match: %v, using %q", err, def.Matcher.LowerMatch)
		c.Matcher.LowerMatch = def.Matcher.LowerMatch
	}
	if c.Search.MaxWords <= 0 {
		c.Search.MaxWords = def.Search.MaxWords
	}
	if c.Search.TimeoutMS < 0 {
		c.Search.TimeoutMS = def.Search.TimeoutMS
	}
	if c.Server.CacheSize <= 0 {
		c.Server.CacheSize = def.Server.CacheSize
	}
	if c.Batch.Workers < 0 {
		c.Batch.Workers = def.Batch.Workers
	}
}

// Validate reports the first out of range value.
func (c *Config) Validate() error {
	switch {
	case c.Matcher.InitialListSize <= 0:
		return fmt.Errorf("%w: matcher.initial_list_size must be positive", ErrInvalid)
	case c.Matcher.GrowthFactor < 2:
		return fmt.Errorf("%w: matcher.growth_factor must be at least 2", ErrInvalid)
	case c.Search.MaxWords <= 0:
		return fmt.Errorf("%w: search.max_words must be positive", ErrInvalid)
	case c.Search.TimeoutMS < 0:
		return fmt.Errorf("%w: search.timeout_ms must not be negative", ErrInvalid)
	case c.Server.CacheSize <= 0:
		return fmt.Errorf("%w: server.cache_size must be positive", ErrInvalid)
	case c.Batch.Workers < 0:
		return fmt.Errorf("%w: batch.workers must not be negative", ErrInvalid)
	}
	if _, err := connector.ParseLowerMatcher(c.Matcher.LowerMatch); err != nil {
		return fmt.Errorf("%w: matcher.lower_match: %w", ErrInvalid, err)
	}
	return nil
}

// MatcherOptions turns the matcher section into fastmatch options.
func (c *Config) MatcherOptions() ([]fastmatch.Option, error) {
	lower, err := connector.ParseLowerMatcher(c.Matcher.LowerMatch)
	if err != nil {
		return nil, err
	}
	return []fastmatch.Option{
		fastmatch.WithInitialListSize(c.Matcher.InitialListSize),
		fastmatch.WithGrowthFactor(c.Matcher.GrowthFactor),
		fastmatch.WithVerbosity(c.Matcher.Verbosity),
		fastmatch.WithLowerMatcher(lower),
	}, nil
}

// Timeout is the per-sentence search budget; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Search.TimeoutMS) * time.Millisecond
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the runtime-adjustable values and saves to file when
// configPath is set.
func (c *Config) Update(configPath string, cacheSize, workers *int, lowerMatch *string) error {
	next := *c
	if cacheSize != nil {
		next.Server.CacheSize = *cacheSize
	}
	if workers != nil {
		next.Batch.Workers = *workers
	}
	if lowerMatch != nil {
		next.Matcher.LowerMatch = *lowerMatch
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
