// Package config resolves client settings from defaults, an optional YAML
// file, BIOKEEPER_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"biokeeper/internal/client/datefmt"
)

const (
	ProfileDesktop = "desktop"
	ProfileMobile  = "mobile"

	envPrefix = "BIOKEEPER"
	dirName   = ".biokeeper"
)

// profileServers are the service roots each client flavour was built for;
// the mobile one is the host as seen from the Android emulator.
var profileServers = map[string]string{
	ProfileDesktop: "http://localhost:8080",
	ProfileMobile:  "http://10.0.2.2:8080",
}

type Config struct {
	Server     string
	Profile    string
	LogLevel   string
	LogFormat  string
	SessionDB  string
	DateFormat datefmt.Format
	Timeout    time.Duration
	// File is the config file that was read, if any.
	File string
}

// flag name -> viper key
var keys = map[string]string{
	"server":      "server",
	"profile":     "profile",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"session-db":  "session_db",
	"date-format": "date_format",
	"timeout":     "timeout",
}

// RegisterFlags adds the global flags to fs. Defaults live in Load so that
// an unset flag never shadows the file or the environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ~/.biokeeper/config.yaml)")
	fs.String("server", "", "service base URL (default depends on --profile)")
	fs.String("profile", "", "client profile: desktop or mobile")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: console or json")
	fs.String("session-db", "", "session database path")
	fs.String("date-format", "", "date format: eu, us or mobile (default eu, mobile for the mobile profile)")
	fs.Duration("timeout", 0, "request timeout")
}

// Dir is the per-user state directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func Load(fs *pflag.FlagSet) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("profile", ProfileDesktop)
	v.SetDefault("server", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("session_db", filepath.Join(dir, "session.db"))
	v.SetDefault("timeout", 30*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	file, explicit := "", false
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			file, explicit = f.Value.String(), true
		}
		for name, key := range keys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}
	if file == "" {
		file = filepath.Join(dir, "config.yaml")
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	read := true
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
		read = false
	}

	cfg := Config{
		Server:    strings.TrimRight(v.GetString("server"), "/"),
		Profile:   strings.ToLower(v.GetString("profile")),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		SessionDB: v.GetString("session_db"),
		Timeout:   v.GetDuration("timeout"),
	}
	if read {
		cfg.File = file
	}
	def, ok := profileServers[cfg.Profile]
	if !ok {
		return Config{}, fmt.Errorf("unknown profile %q (want desktop or mobile)", cfg.Profile)
	}
	if cfg.Server == "" {
		cfg.Server = def
	}
	if cfg.DateFormat, err = datefmt.ParseFormat(v.GetString("date_format")); err != nil {
		return Config{}, err
	}
	if v.GetString("date_format") == "" && cfg.Profile == ProfileMobile {
		cfg.DateFormat = datefmt.Mobile
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}
