package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// EnvPrefix prefixes every environment override, e.g. COTFAITH_MAX_RETRIES.
	EnvPrefix = "COTFAITH_"
	// APIKeyEnvVar is read as a fallback for the API key.
	APIKeyEnvVar = "DEEPSEEK_API_KEY"
	// SettingsPathEnvVar names a settings file when no path is given explicitly.
	SettingsPathEnvVar = "COTFAITH_CONFIG"
	// DefaultSettingsFile is read when present and no other path is given.
	DefaultSettingsFile = "cotfaith.settings.yaml"
)

// Settings holds the runtime configuration of the evaluator.
type Settings struct {
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	ReasoningModel string        `koanf:"reasoning_model"`
	ChatModel      string        `koanf:"chat_model"`
	HTTPTimeout    time.Duration `koanf:"http_timeout"`

	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	BreakerFailures   uint32        `koanf:"breaker_failures"`
	BreakerCooldown   time.Duration `koanf:"breaker_cooldown"`

	CheckpointPath   string        `koanf:"checkpoint_path"`
	ArtifactDir      string        `koanf:"artifact_dir"`
	ReadLockTimeout  time.Duration `koanf:"read_lock_timeout"`
	WriteLockTimeout time.Duration `koanf:"write_lock_timeout"`
	MemoEnabled      bool          `koanf:"memo_enabled"`

	Workers          int `koanf:"workers"`
	MaxRetries       int `koanf:"max_retries"`
	MaxNonThinking   int `koanf:"max_non_thinking"`
	MaxContinuations int `koanf:"max_continuations"`
	ChunkTokens      int `koanf:"chunk_tokens"`

	PlanPath string `koanf:"plan"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:           "https://api.deepseek.com/beta",
		ReasoningModel:    "deepseek-reasoner",
		ChatModel:         "deepseek-chat",
		HTTPTimeout:       10 * time.Minute,
		RequestsPerSecond: 5,
		Burst:             5,
		BreakerFailures:   5,
		BreakerCooldown:   30 * time.Second,
		CheckpointPath:    ".cache/cot-faith.json",
		ArtifactDir:       ".cache",
		ReadLockTimeout:   10 * time.Second,
		WriteLockTimeout:  30 * time.Second,
		MemoEnabled:       true,
		MaxRetries:        10,
		MaxNonThinking:    100,
		MaxContinuations:  64,
		ChunkTokens:       200,
	}
}

// LoadSettings layers defaults, the optional YAML file at path and environment overrides.
//
// An empty path falls back to $COTFAITH_CONFIG and then to DefaultSettingsFile if it exists.
// An explicitly named file that does not exist is an error.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	resolved, err := resolveSettingsPath(path)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", resolved)
		}
	}

	// The provider-specific key is loaded first so COTFAITH_API_KEY wins over it.
	fallback := env.Provider("", ".", func(key string) string {
		if key == APIKeyEnvVar {
			return "api_key"
		}
		return ""
	})
	if err := k.Load(fallback, nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate reports the first out-of-range field.
func (s *Settings) Validate() error {
	switch {
	case s.BaseURL == "":
		return zerr.With(domain.ErrInvalidSettings, "field", "base_url")
	case s.Workers < 0:
		return zerr.With(domain.ErrInvalidSettings, "field", "workers")
	case s.MaxRetries < 0:
		return zerr.With(domain.ErrInvalidSettings, "field", "max_retries")
	case s.MaxNonThinking < 0:
		return zerr.With(domain.ErrInvalidSettings, "field", "max_non_thinking")
	case s.MaxContinuations < 1:
		return zerr.With(domain.ErrInvalidSettings, "field", "max_continuations")
	case s.RequestsPerSecond < 0:
		return zerr.With(domain.ErrInvalidSettings, "field", "requests_per_second")
	case s.CheckpointPath == "":
		return zerr.With(domain.ErrInvalidSettings, "field", "checkpoint_path")
	}
	return nil
}

// envTransformFunc maps COTFAITH_MAX_RETRIES to max_retries.
func envTransformFunc(key string) string {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if name == "config" {
		return ""
	}
	return name
}

func resolveSettingsPath(path string) (string, error) {
	explicit := path
	if explicit == "" {
		explicit = os.Getenv(SettingsPathEnvVar)
	}

	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", explicit)
		}
		return explicit, nil
	}

	if _, err := os.Stat(DefaultSettingsFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", DefaultSettingsFile)
	}
	return DefaultSettingsFile, nil
}

type settingsPathKey struct{}

// WithSettingsPath returns a context carrying the settings file chosen on the command line.
func WithSettingsPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, settingsPathKey{}, path)
}

// SettingsPathFromContext returns the settings file carried by ctx, or "".
func SettingsPathFromContext(ctx context.Context) string {
	path, _ := ctx.Value(settingsPathKey{}).(string)
	return path
}
