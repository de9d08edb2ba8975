// Package config resolves runtime settings from defaults, an optional TOML
// file and TASKLINE_* environment variables. CLI flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/taskline/internal/storage"
)

const EnvConfigFile = "TASKLINE_CONFIG"

type RuntimeConfig struct {
	Backend         string `toml:"backend"`
	DataPath        string `toml:"data_path"`
	LogLevel        string `toml:"log_level"`
	LogPath         string `toml:"log_file"`
	ShutdownGraceMS int    `toml:"shutdown_grace_ms"`
	Plain           bool   `toml:"plain"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:         string(storage.BackendFile),
		DataPath:        "data/tasks.txt",
		LogLevel:        "info",
		LogPath:         "",
		ShutdownGraceMS: 1500,
		Plain:           false,
	}
}

func (c RuntimeConfig) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceMS) * time.Millisecond
}

func (c RuntimeConfig) Validate() error {
	if !storage.Backend(c.Backend).IsValid() {
		return fmt.Errorf("config: unknown backend %q (want file or sqlite)", c.Backend)
	}
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: data path is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	if c.ShutdownGraceMS < 0 {
		return fmt.Errorf("config: shutdown grace must not be negative, got %d", c.ShutdownGraceMS)
	}
	return nil
}

// Load layers defaults, the config file (path, or $TASKLINE_CONFIG when path is
// empty) and the environment. A missing file is only an error when it was named.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
		explicit = path != ""
	}
	if explicit {
		loaded, err := LoadFile(cfg, path)
		if err != nil {
			return RuntimeConfig{}, err
		}
		cfg = loaded
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return RuntimeConfig{}, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLINE_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLINE_DATA"); ok {
		cfg.DataPath = v
	}
	if v, ok := getEnvString("TASKLINE_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLINE_LOG_FILE"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvInt("TASKLINE_SHUTDOWN_GRACE_MS"); ok && v >= 0 {
		cfg.ShutdownGraceMS = v
	}
	if v, ok := getEnvBool("TASKLINE_PLAIN"); ok {
		cfg.Plain = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
