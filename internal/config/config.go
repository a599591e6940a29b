// Package config loads ucictl configuration files.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/dmora/uci"
)

// DefaultMoveTime is the search budget when the file sets neither
// movetime nor depth.
const DefaultMoveTime = time.Second

// Config is the top-level ucictl configuration.
type Config struct {
	Engine  EngineConfig           `toml:"engine"`
	Options map[string]OptionValue `toml:"options"`
	Search  SearchConfig           `toml:"search"`
}

// EngineConfig locates the engine and bounds its commands. Zero
// durations keep the library defaults.
type EngineConfig struct {
	Path             string   `toml:"path"`
	Args             []string `toml:"args"`
	Dir              string   `toml:"dir"`
	Env              []string `toml:"env"`
	HandshakeTimeout Duration `toml:"handshake_timeout"`
	CommandTimeout   Duration `toml:"command_timeout"`
	SearchTimeout    Duration `toml:"search_timeout"`
	GracePeriod      Duration `toml:"grace_period"`
}

// SearchConfig selects the search limit for bestmove. Depth wins over
// movetime when both are set.
type SearchConfig struct {
	MoveTime Duration `toml:"movetime"`
	Depth    int      `toml:"depth"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// OptionValue is an engine option value. TOML strings, integers,
// floats and booleans are accepted and kept in their UCI text form.
type OptionValue string

func (v *OptionValue) UnmarshalTOML(data any) error {
	switch x := data.(type) {
	case string:
		*v = OptionValue(x)
	case int64:
		*v = OptionValue(strconv.FormatInt(x, 10))
	case float64:
		*v = OptionValue(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*v = OptionValue(strconv.FormatBool(x))
	default:
		return fmt.Errorf("unsupported option value %v (%T)", data, data)
	}
	return nil
}

// Load reads path and validates it. Keys the schema does not know are
// rejected.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cfg for values the engine could never accept.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Engine.Path != "" && strings.TrimSpace(cfg.Engine.Path) == "" {
		errs = append(errs, errors.New("engine.path is blank"))
	}
	for name, d := range map[string]Duration{
		"engine.handshake_timeout": cfg.Engine.HandshakeTimeout,
		"engine.command_timeout":   cfg.Engine.CommandTimeout,
		"engine.search_timeout":    cfg.Engine.SearchTimeout,
		"engine.grace_period":      cfg.Engine.GracePeriod,
		"search.movetime":          cfg.Search.MoveTime,
	} {
		if d.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if cfg.Search.Depth < 0 {
		errs = append(errs, errors.New("search.depth must not be negative"))
	}
	for name, v := range cfg.Options {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("options: empty option name"))
		}
		if strings.ContainsAny(name+string(v), "\r\n\x00") {
			errs = append(errs, fmt.Errorf("options.%q: contains a line break or NUL", name))
		}
	}
	return errors.Join(errs...)
}

// EngineOptions converts the [engine] table to uci options.
func (c Config) EngineOptions(logger zerolog.Logger) []uci.Option {
	return []uci.Option{
		uci.WithArgs(c.Engine.Args...),
		uci.WithDir(c.Engine.Dir),
		uci.WithEnv(c.Engine.Env),
		uci.WithHandshakeTimeout(c.Engine.HandshakeTimeout.Duration),
		uci.WithCommandTimeout(c.Engine.CommandTimeout.Duration),
		uci.WithSearchTimeout(c.Engine.SearchTimeout.Duration),
		uci.WithGracePeriod(c.Engine.GracePeriod.Duration),
		uci.WithLogger(logger),
	}
}

// OptionNames returns the [options] keys in sorted order.
func (c Config) OptionNames() []string {
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MoveTimeOrDefault returns the configured movetime, or DefaultMoveTime.
func (s SearchConfig) MoveTimeOrDefault() time.Duration {
	if s.MoveTime.Duration > 0 {
		return s.MoveTime.Duration
	}
	return DefaultMoveTime
}
