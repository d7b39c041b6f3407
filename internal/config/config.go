// Package config handles loading tareas.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/amonks/tareas/internal/paths"
)

// ProjectFileName is the per-directory configuration file.
const ProjectFileName = "tareas.toml"

// EnvFileName is the optional dotenv file read next to the project file.
const EnvFileName = ".env"

// EnvAPIURL overrides the configured backend address.
const EnvAPIURL = "TAREAS_API_URL"

// Defaults applied after merging.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultPerPage   = 5
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultWebAddr   = "127.0.0.1:8080"
)

// Config represents the tareas.toml configuration file.
type Config struct {
	API  API  `toml:"api"`
	List List `toml:"list"`
	Log  Log  `toml:"log"`
	Web  Web  `toml:"web"`
}

// API configures the backend connection.
type API struct {
	// URL is the backend base address, e.g. http://127.0.0.1:8000.
	URL string `toml:"url"`
	// Timeout bounds each request. Accepts TOML duration strings like "5s".
	Timeout time.Duration `toml:"timeout"`
}

// List configures the task list.
type List struct {
	PerPage int `toml:"per-page"`
}

// Log configures diagnostic logging.
type Log struct {
	// File enables logging to a rotated file. Empty disables file logging.
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Web configures the HTML front end.
type Web struct {
	Addr string `toml:"addr"`
}

// Load loads configuration from the global config file and from dir. When
// path is set it replaces dir's tareas.toml and must exist. Values from the
// environment or dir's .env file take precedence over both files.
func Load(dir, path string) (*Config, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath, false)
	if err != nil {
		return nil, err
	}

	projectPath := filepath.Join(dir, ProjectFileName)
	required := false
	if path != "" {
		projectPath = path
		required = true
	}
	projectCfg, projectMeta, err := loadConfigFile(projectPath, required)
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)

	dotenv, err := readDotenv(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, err
	}
	if url := lookupEnv(EnvAPIURL, dotenv); url != "" {
		merged.API.URL = url
	}

	// A relative log file in a config file lives under the state directory.
	logFile, err := paths.ResolveStateFile(merged.Log.File)
	if err != nil {
		return nil, err
	}
	merged.Log.File = logFile

	merged.applyDefaults()
	return merged, nil
}

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string, required bool) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.API.URL = mergeString(projectMeta.IsDefined("api", "url"), projectCfg.API.URL, globalCfg.API.URL)
	merged.API.Timeout = globalCfg.API.Timeout
	if projectMeta.IsDefined("api", "timeout") {
		merged.API.Timeout = projectCfg.API.Timeout
	}
	merged.List.PerPage = globalCfg.List.PerPage
	if projectMeta.IsDefined("list", "per-page") {
		merged.List.PerPage = projectCfg.List.PerPage
	}
	merged.Log.File = mergeString(projectMeta.IsDefined("log", "file"), projectCfg.Log.File, globalCfg.Log.File)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.Format = mergeString(projectMeta.IsDefined("log", "format"), projectCfg.Log.Format, globalCfg.Log.Format)
	merged.Web.Addr = mergeString(projectMeta.IsDefined("web", "addr"), projectCfg.Web.Addr, globalCfg.Web.Addr)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func (c *Config) applyDefaults() {
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.List.PerPage <= 0 {
		c.List.PerPage = DefaultPerPage
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Web.Addr == "" {
		c.Web.Addr = DefaultWebAddr
	}
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

// lookupEnv prefers the process environment over dotenv values.
func lookupEnv(key string, dotenv map[string]string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return strings.TrimSpace(dotenv[key])
}
