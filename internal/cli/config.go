package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statewalk/pkg/errors"
	"github.com/matzehuels/statewalk/pkg/pipeline"
	"github.com/matzehuels/statewalk/pkg/server"
)

// envConfig overrides the default config file location.
const envConfig = "STATEWALK_CONFIG"

// Config is the TOML config file.
//
//	[search]
//	algorithm = "optimal"
//	quality = "balanced"
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_timeout = "30s"
type Config struct {
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// SearchConfig holds defaults for the order command.
type SearchConfig struct {
	Algorithm string `toml:"algorithm"`
	Quality   string `toml:"quality"`
	Seed      uint64 `toml:"seed"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Disabled      bool   `toml:"disabled"`
	Dir           string `toml:"dir,omitempty"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`
	Namespace     string `toml:"namespace,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxTimeout   Duration `toml:"max_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Algorithm: pipeline.DefaultAlgorithm,
			Quality:   "balanced",
			Seed:      pipeline.DefaultSeed,
		},
		Server: ServerConfig{
			Addr:         server.DefaultAddr,
			MaxTimeout:   Duration(server.DefaultMaxTimeout),
			MaxBodyBytes: server.DefaultMaxBodyBytes,
		},
	}
}

// configPath resolves the config file location: the explicit path, then
// $STATEWALK_CONFIG, then the user config directory.
func configPath(explicit string) (path string, required bool, err error) {
	if explicit != "" {
		return explicit, true, nil
	}
	if env := os.Getenv(envConfig); env != "" {
		return env, true, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(base, appName, "config.toml"), false, nil
}

// LoadConfig reads the config file over the defaults. A missing default
// file is not an error; a missing explicit one is. Unknown keys are
// rejected so typos do not go unnoticed.
func LoadConfig(explicit string) (Config, error) {
	cfg := DefaultConfig()
	path, required, err := configPath(explicit)
	if err != nil {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err):
		if required {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return DefaultConfig(), nil
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := configPath(c.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration if no file exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := configPath(c.configPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				printWarning(cmd.ErrOrStderr(), "Config already exists")
				printFile(cmd.ErrOrStderr(), path)
				return nil
			}
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(DefaultConfig()); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Wrote default config")
			printFile(cmd.ErrOrStderr(), path)
			return nil
		},
	})
	return cmd
}
