package gowindow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConfigKey is the viper key under which LoadConfig expects its section.
const ConfigKey = "pagination"

// Config carries the settings that would otherwise be process-wide defaults.
// It is passed explicitly; the package-level helpers use DefaultConfig().
type Config struct {
	// DefaultPageSize is applied by raw payload decoding when the client
	// did not send a size.
	DefaultPageSize int `mapstructure:"default_page_size" validate:"min=1,max=100,ltefield=MaxPageSize"`
	// MaxPageSize is the largest accepted page size / cursor limit. It may
	// tighten MaxLimit, never raise it.
	MaxPageSize int `mapstructure:"max_page_size" validate:"min=1,max=100"`
}

// DefaultConfig returns {DefaultPageSize: 20, MaxPageSize: 100}.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: DefaultLimit,
		MaxPageSize:     MaxLimit,
	}
}

var _validate = validator.New()

// Validate checks the configuration itself (not a request).
func (c Config) Validate() error {
	if err := _validate.Struct(c); err != nil {
		return fmt.Errorf("pagination config validation error: %w", err)
	}

	return nil
}

// LoadConfig reads the "pagination" section from v:
//
//	pagination:
//	  default_page_size: 20
//	  max_page_size: 100
//
// Missing keys fall back to DefaultConfig().
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, fmt.Errorf("cannot load pagination config: nil viper instance")
	}

	setDefaults(v)

	// Keys are read one by one: UnmarshalKey on the parent section does not
	// merge registered defaults with partially overridden children.
	cfg := Config{
		DefaultPageSize: v.GetInt(ConfigKey + ".default_page_size"),
		MaxPageSize:     v.GetInt(ConfigKey + ".max_page_size"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault(ConfigKey+".default_page_size", def.DefaultPageSize)
	v.SetDefault(ConfigKey+".max_page_size", def.MaxPageSize)
}

func (c Config) maxPageSize() int {
	if c.MaxPageSize <= 0 || c.MaxPageSize > MaxLimit {
		return MaxLimit
	}

	return c.MaxPageSize
}
