package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/codec"
)

// ConfigError reports an unusable configuration value.
// It matches artifact.ErrInvalidConfig with errors.Is.
type ConfigError struct {
	Key    string
	Value  string
	Source Source
	Reason string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config %s=%q", e.Key, e.Value)
	if e.Source != "" {
		msg += " (from " + string(e.Source) + ")"
	}
	return msg + ": " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return artifact.ErrInvalidConfig
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	BaseDir  string
	Strategy artifact.Strategy
	Codec    string
	Compress bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		BaseDir:  artifact.DefaultBaseDir,
		Strategy: artifact.StrategyAuto,
		Codec:    codec.NameCBOR,
	}
}

// Settings converts the resolved values into Settings and validates them.
func (c *Resolved) Settings() (Settings, error) {
	for _, key := range Keys {
		if invalid, ok := c.invalid[key]; ok {
			return Settings{}, invalid
		}
	}

	s := DefaultSettings()
	if v := c.values[KeyBaseDir]; v != "" {
		s.BaseDir = v
	}
	if v := c.values[KeyStrategy]; v != "" {
		s.Strategy = artifact.Strategy(v)
	}
	if v := c.values[KeyCodec]; v != "" {
		s.Codec = v
	}
	if v := c.values[KeyCompress]; v != "" {
		compress, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, &ConfigError{
				Key:    KeyCompress,
				Value:  v,
				Source: c.sources[KeyCompress],
				Reason: "expected true or false",
			}
		}
		s.Compress = compress
	}

	if err := s.Validate(); err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Source = c.sources[cerr.Key]
		}
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every setting names something that exists.
func (s Settings) Validate() error {
	if s.BaseDir == "" {
		return &ConfigError{Key: KeyBaseDir, Reason: "must not be empty"}
	}
	if !s.Strategy.Valid() {
		return &ConfigError{
			Key:    KeyStrategy,
			Value:  string(s.Strategy),
			Reason: "expected auto or custom",
		}
	}
	if _, err := codec.Lookup(s.Codec); err != nil {
		return &ConfigError{Key: KeyCodec, Value: s.Codec, Reason: err.Error()}
	}
	return nil
}

// ResolveCodec returns the configured codec, gzip-wrapped when Compress is set.
func (s Settings) ResolveCodec() (codec.Codec, error) {
	c, err := codec.Lookup(s.Codec)
	if err != nil {
		return nil, &ConfigError{Key: KeyCodec, Value: s.Codec, Reason: err.Error()}
	}
	if s.Compress {
		return codec.Gzip(c, 0), nil
	}
	return c, nil
}

// ManagerConfig converts the settings into an artifact.Config.
func (s Settings) ManagerConfig() (artifact.Config, error) {
	if err := s.Validate(); err != nil {
		return artifact.Config{}, err
	}
	c, err := s.ResolveCodec()
	if err != nil {
		return artifact.Config{}, err
	}
	return artifact.Config{
		BaseDir:  s.BaseDir,
		Strategy: s.Strategy,
		Codec:    c,
	}, nil
}
