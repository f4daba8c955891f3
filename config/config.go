package config

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	skema "github.com/reoring/skema"
)

// Supported message languages.
const (
	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Validation ValidationConfig  `yaml:"validation"`
	HTTP       HTTPConfig        `yaml:"http"`
	Admission  AdmissionConfig   `yaml:"admission"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return c.Admission.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Language string     `yaml:"language"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Language == "" {
		c.Language = LanguageEnglish
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Language, validation.In(LanguageEnglish, LanguageJapanese)),
	)
}

// ValidationConfig holds validator tuning.
type ValidationConfig struct {
	Stride      int  `yaml:"stride"`
	FullScan    bool `yaml:"full_scan"`
	Concurrency int  `yaml:"concurrency"`
}

// Validate validates the validation configuration.
func (c *ValidationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Stride, validation.Required, validation.Min(1)),
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(1024)),
	)
}

// Skema returns the validator configuration.
func (c *ValidationConfig) Skema() skema.Config {
	return skema.Config{Stride: c.Stride}
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AdmissionConfig enables the CRD admission webhook on the HTTP server.
type AdmissionConfig struct {
	CRDFile string `yaml:"crd_file"`
	Kind    string `yaml:"kind"`
}

// Enabled reports whether a CRD bundle is configured.
func (c *AdmissionConfig) Enabled() bool { return c.CRDFile != "" }

// Validate validates the admission configuration.
func (c *AdmissionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Kind, validation.When(c.Enabled(), validation.Required)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Language: LanguageEnglish,
		},
		Validation: ValidationConfig{
			Stride:      skema.DefaultStride,
			Concurrency: 8,
		},
		HTTP: HTTPConfig{
			Port: 8080,
		},
	}
}
