package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = "movie-graph.toml"

// EnvPrefix prefixes environment overrides, e.g. MOVIE_GRAPH_PORT=9090
const EnvPrefix = "MOVIE_GRAPH_"

// Config holds all configuration for the application
type Config struct {
	Catalog     string `koanf:"catalog"`
	Selected    []int  `koanf:"selected"`
	Recommended []int  `koanf:"recommended"`
	Start       string `koanf:"start"`
	End         string `koanf:"end"`
	WebMode     bool   `koanf:"web"`
	Port        int    `koanf:"port"`
	Watch       bool   `koanf:"watch"`
	JSON        bool   `koanf:"json"`
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
	LogFormat   string `koanf:"logformat"`

	// File is the config file that was loaded, empty if there was none
	File string `koanf:"-"`
}

// RegisterFlags defines the command line flags understood by Load
func RegisterFlags(f *pflag.FlagSet) {
	f.String("catalog", "movies.json", "Path to the movie catalog JSON file")
	f.IntSlice("selected", nil, "Selected movie ids (overrides the catalog)")
	f.IntSlice("recommended", nil, "Recommended movie ids (overrides the catalog)")
	f.String("start", "", "Start node for traversals (default: first selected movie)")
	f.String("end", "", "Target node for the shortest path (default: first other movie)")
	f.Bool("web", false, "Start web server for API access")
	f.Int("port", 8080, "Web server port")
	f.Bool("watch", false, "Re-run the analysis when the catalog changes")
	f.Bool("json", false, "Print the report as JSON")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	f.String("logformat", "text", "Log format: text or json")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return LoadFile(f, DefaultFile)
}

// LoadFile is Load with an explicit config file path. A missing file is not
// an error; a malformed one is.
func LoadFile(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"catalog":     "movies.json",
		"selected":    []int{},
		"recommended": []int{},
		"start":       "",
		"end":         "",
		"web":         false,
		"port":        8080,
		"watch":       false,
		"json":        false,
		"verbosity":   "",
		"verbose":     0,
		"logformat":   "text",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional)
	loadedFile := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
			loadedFile = path
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	// 3. Environment Variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = loadedFile

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
