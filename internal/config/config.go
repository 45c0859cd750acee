// Package config loads tgt settings with viper.
//
// Precedence, lowest first: built-in defaults, the optional tgt.yaml file
// (working directory, then $HOME/.tgt), TGT_* environment variables, and
// command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/HendryAvila/tgt/internal/results"
)

// EnvPrefix prefixes every environment override, e.g. TGT_STORE_BACKEND.
const EnvPrefix = "TGT"

// Config is the fully resolved configuration.
type Config struct {
	DataDir        string      `mapstructure:"data_dir"`
	Store          StoreConfig `mapstructure:"store"`
	CatalogPath    string      `mapstructure:"catalog_path"`
	WhitepaperPath string      `mapstructure:"whitepaper_path"`
	HTTP           HTTPConfig  `mapstructure:"http"`
	MCP            MCPConfig   `mapstructure:"mcp"`
	Log            LogConfig   `mapstructure:"log"`
	Cache          CacheConfig `mapstructure:"cache"`
}

// StoreConfig selects and locates the result store.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	CSVPath    string `mapstructure:"csv_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Mode       string `mapstructure:"mode"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// MCPConfig configures the MCP transport.
type MCPConfig struct {
	Transport string `mapstructure:"transport"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig sizes the in-memory submission cache.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// userHomeDir is a package-level var to allow test injection.
var userHomeDir = os.UserHomeDir

// New returns a viper instance with defaults, env binding, and the config
// file search path set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("store.backend", string(results.BackendCSV))
	v.SetDefault("store.csv_path", "")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.mode", string(results.ModeLocked))
	v.SetDefault("catalog_path", "")
	v.SetDefault("whitepaper_path", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.size", 256)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tgt")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join("$HOME", ".tgt"))
	return v
}

// Load reads the config file (an explicit path when configFile is set,
// otherwise the search path; a missing searched file is not an error),
// resolves derived paths, and validates the result.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: reading file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}

	if cfg.Store.CSVPath == "" {
		cfg.Store.CSVPath = filepath.Join(cfg.DataDir, "results.csv")
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = filepath.Join(cfg.DataDir, "results.db")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and impossible sizes.
func (c Config) Validate() error {
	var problems []string

	switch results.Backend(c.Store.Backend) {
	case results.BackendCSV, results.BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("store.backend %q (want csv or sqlite)", c.Store.Backend))
	}
	switch results.Mode(c.Store.Mode) {
	case results.ModeLocked, results.ModeLegacy:
	default:
		problems = append(problems, fmt.Sprintf("store.mode %q (want locked or legacy)", c.Store.Mode))
	}
	switch c.MCP.Transport {
	case "stdio", "http":
	default:
		problems = append(problems, fmt.Sprintf("mcp.transport %q (want stdio or http)", c.MCP.Transport))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q (want json or console)", c.Log.Format))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q", c.Log.Level))
	}
	if c.Cache.Size <= 0 {
		problems = append(problems, fmt.Sprintf("cache.size %d (must be positive)", c.Cache.Size))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid %s", strings.Join(problems, "; "))
	}
	return nil
}

// ResultsOptions maps the store section onto results.Open.
func (c Config) ResultsOptions() results.Options {
	return results.Options{
		Backend:    results.Backend(c.Store.Backend),
		CSVPath:    c.Store.CSVPath,
		SQLitePath: c.Store.SQLitePath,
		Mode:       results.Mode(c.Store.Mode),
	}
}

func defaultDataDir() string {
	home, err := userHomeDir()
	if err != nil {
		return ".tgt"
	}
	return filepath.Join(home, ".tgt")
}
