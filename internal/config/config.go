package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the working directory
const FileName = ".selkit.toml"

// Config represents the demo configuration
type Config struct {
	Version      int      `toml:"version" validate:"gte=1"`
	SingleSelect bool     `toml:"single_select"`
	LogLevel     string   `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile      string   `toml:"log_file"`
	Items        []string `toml:"items" validate:"dive,required"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	filePath string
	validate *validator.Validate
}

// NewConfigService creates a config service reading FileName from dir
func NewConfigService(dir string) ConfigService {
	if dir == "" {
		dir = "."
	}
	return &configService{
		filePath: filepath.Join(dir, FileName),
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their toml key
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("toml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration, falling back to defaults if the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cs.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := cs.validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		SingleSelect: false,
		LogLevel:     "info",
		Items: []string{
			"alpha", "bravo", "charlie", "delta", "echo",
			"foxtrot", "golf", "hotel", "india", "juliett",
		},
	}
}
