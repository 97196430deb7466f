package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server  ServerConfig  `validate:"required"`
	Storage StorageConfig `validate:"required"`
	History HistoryConfig `validate:"required"`
	Trends  TrendsConfig  `validate:"required"`
	Log     LogConfig     `validate:"required"`
}

type ServerConfig struct {
	Port int `validate:"gt=0,lt=65536"`
}

type StorageConfig struct {
	DataDir    string `validate:"required"`
	HistoryKey string `validate:"required"`
}

// HistoryConfig controls how an unreadable history slot is handled.
type HistoryConfig struct {
	OnCorrupt string `validate:"oneof=reset fail"`
}

type TrendsConfig struct {
	Window int `validate:"gte=1,lte=90"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir:    defaultDataDir(),
			HistoryKey: "wellness-mood-history",
		},
		History: HistoryConfig{
			OnCorrupt: "reset",
		},
		Trends: TrendsConfig{
			Window: 7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.studentwell.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/studentwell/config.json.
//
// Environment variables (STUDENTWELL_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and enumerations.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
