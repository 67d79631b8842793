/*
Package config manages the TOML config for WordLens.

The file is created with defaults on first run. A file that fails to decode
is salvaged section by section, and anything missing keeps its default.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordlens/internal/utils"
	"github.com/bastiangx/wordlens/pkg/game"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/charmbracelet/log"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "WORDLENS_API_URL"

const appDir = "wordlens"

// Config holds the entire config structure
type Config struct {
	API    APIConfig    `toml:"api"`
	Search SearchConfig `toml:"search"`
	Game   GameConfig   `toml:"game"`
	CLI    CliConfig    `toml:"cli"`
}

// APIConfig has the REST client options.
type APIConfig struct {
	BaseURL      string  `toml:"base_url"`
	TimeoutMs    int     `toml:"timeout_ms"`
	RatePerSec   float64 `toml:"rate_per_sec"`
	Burst        int     `toml:"burst"`
	RetryDelayMs int     `toml:"retry_delay_ms"`
}

// SearchConfig tunes the search box.
type SearchConfig struct {
	PageSize          int `toml:"page_size"`
	MinSuggestLen     int `toml:"min_suggest_len"`
	SuggestLimit      int `toml:"suggest_limit"`
	SuggestDebounceMs int `toml:"suggest_debounce_ms"`
	SearchDebounceMs  int `toml:"search_debounce_ms"`
	CacheSize         int `toml:"cache_size"`
}

// GameConfig holds the game rules.
type GameConfig struct {
	OptionCount   int `toml:"option_count"`
	RealOptions   int `toml:"real_options"`
	SynonymPoints int `toml:"synonym_points"`
	AnagramPoints int `toml:"anagram_points"`
}

// CliConfig holds terminal front-end options.
type CliConfig struct {
	PreviewDefinitions int `toml:"preview_definitions"`
	PreviewSynonyms    int `toml:"preview_synonyms"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "http://localhost:3000",
			TimeoutMs:    10000,
			RatePerSec:   10,
			Burst:        5,
			RetryDelayMs: 500,
		},
		Search: SearchConfig{
			PageSize:          10,
			MinSuggestLen:     2,
			SuggestLimit:      10,
			SuggestDebounceMs: 300,
			SearchDebounceMs:  600,
			CacheSize:         256,
		},
		Game: GameConfig{
			OptionCount:   4,
			RealOptions:   2,
			SynonymPoints: 8,
			AnagramPoints: 10,
		},
		CLI: CliConfig{
			PreviewDefinitions: 3,
			PreviewSynonyms:    8,
		},
	}
}

// Timeout returns the request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// RetryDelay returns the pause before a retried request.
func (a APIConfig) RetryDelay() time.Duration {
	return time.Duration(a.RetryDelayMs) * time.Millisecond
}

// ControllerOptions maps the section onto search.Options.
func (s SearchConfig) ControllerOptions() search.Options {
	return search.Options{
		PageSize:        s.PageSize,
		MinSuggestLen:   s.MinSuggestLen,
		SuggestLimit:    s.SuggestLimit,
		SuggestDebounce: time.Duration(s.SuggestDebounceMs) * time.Millisecond,
		SearchDebounce:  time.Duration(s.SearchDebounceMs) * time.Millisecond,
	}
}

// Rules maps the section onto game.Config.
func (g GameConfig) Rules() game.Config {
	return game.Config{
		OptionCount:   g.OptionCount,
		RealOptions:   g.RealOptions,
		SynonymPoints: g.SynonymPoints,
		AnagramPoints: g.AnagramPoints,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDir)
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
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordlens/config.toml
// 3. Builtin defaults
//
// The WORDLENS_API_URL environment variable wins over any file.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	config, path := loadWithPriority(customConfigPath)
	applyEnv(config)
	return config, path, nil
}

func loadWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

func applyEnv(config *Config) {
	if url := strings.TrimSpace(os.Getenv(EnvAPIURL)); url != "" {
		log.Debugf("Using API base URL from %s", EnvAPIURL)
		config.API.BaseURL = url
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages the well-typed keys of a file that failed to
// decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "api"); ok {
		extractAPIConfig(section, &config.API)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "game"); ok {
		extractGameConfig(section, &config.Game)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractAPIConfig(data map[string]any, api *APIConfig) {
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		api.BaseURL = val
	}
	if val, ok := utils.ExtractInt(data, "timeout_ms"); ok {
		api.TimeoutMs = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_per_sec"); ok {
		api.RatePerSec = val
	}
	if val, ok := utils.ExtractInt(data, "burst"); ok {
		api.Burst = val
	}
	if val, ok := utils.ExtractInt(data, "retry_delay_ms"); ok {
		api.RetryDelayMs = val
	}
}

func extractSearchConfig(data map[string]any, s *SearchConfig) {
	if val, ok := utils.ExtractInt(data, "page_size"); ok {
		s.PageSize = val
	}
	if val, ok := utils.ExtractInt(data, "min_suggest_len"); ok {
		s.MinSuggestLen = val
	}
	if val, ok := utils.ExtractInt(data, "suggest_limit"); ok {
		s.SuggestLimit = val
	}
	if val, ok := utils.ExtractInt(data, "suggest_debounce_ms"); ok {
		s.SuggestDebounceMs = val
	}
	if val, ok := utils.ExtractInt(data, "search_debounce_ms"); ok {
		s.SearchDebounceMs = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		s.CacheSize = val
	}
}

func extractGameConfig(data map[string]any, g *GameConfig) {
	if val, ok := utils.ExtractInt(data, "option_count"); ok {
		g.OptionCount = val
	}
	if val, ok := utils.ExtractInt(data, "real_options"); ok {
		g.RealOptions = val
	}
	if val, ok := utils.ExtractInt(data, "synonym_points"); ok {
		g.SynonymPoints = val
	}
	if val, ok := utils.ExtractInt(data, "anagram_points"); ok {
		g.AnagramPoints = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "preview_definitions"); ok {
		cli.PreviewDefinitions = val
	}
	if val, ok := utils.ExtractInt(data, "preview_synonyms"); ok {
		cli.PreviewSynonyms = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
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
