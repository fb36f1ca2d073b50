// Package config loads and persists config.yaml.
//
// When no file exists every field takes its default, so aboutdesc works
// out of the box once an API key is available. Values are applied in
// this order, later wins: defaults, config.yaml, ABOUTDESC_* environment
// variables, command-line flags (the last step lives in main).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/aboutdesc/langmeta"
	"github.com/minios-linux/aboutdesc/settings"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level config.yaml structure.
type Config struct {
	// TargetLanguage is the language descriptions are translated into.
	TargetLanguage string `yaml:"target_language" validate:"required,bcp47_language_tag"`
	// TranslationMarker is the text of the comment written into translated files.
	TranslationMarker string `yaml:"translation_marker" validate:"required,excludes=--"`
	// FileName is the exact base name of the files to process.
	FileName string `yaml:"file_name" validate:"required,excludesall=/"`
	// RequestDelay is the pause between files.
	RequestDelay time.Duration `yaml:"request_delay" validate:"gte=0"`
	// LogFile, when set, receives JSON log lines in addition to the console.
	LogFile string `yaml:"log_file,omitempty"`

	API API `yaml:"api"`
}

// API describes the chat-completions endpoint.
type API struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	Model       string        `yaml:"model" validate:"required"`
	APIKey      string        `yaml:"api_key,omitempty"`
	Temperature float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	Proxy       string        `yaml:"proxy,omitempty" validate:"omitempty,url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TargetLanguage:    "zh-CN",
		TranslationMarker: "AI-Translated",
		FileName:          "about.xml",
		RequestDelay:      500 * time.Millisecond,
		API: API{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Environment variables that override config.yaml.
const (
	EnvTargetLang = "ABOUTDESC_TARGET_LANG"
	EnvModel      = "ABOUTDESC_MODEL"
	EnvBaseURL    = "ABOUTDESC_BASE_URL"
)

// Path returns explicit if set, otherwise the default config.yaml location.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return settings.ConfigFilePath()
}

// Load reads path on top of the defaults, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg.finish(path)
}

// LoadFile is Load without environment overrides. Use it when the result
// is written back with Save.
func LoadFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	return cfg.finish(path)
}

func read(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) finish(path string) (*Config, error) {
	c.TargetLanguage = langmeta.Canonicalize(c.TargetLanguage)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTargetLang); v != "" {
		c.TargetLanguage = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.API.Model = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
}

// Save writes the configuration as YAML with 0600 permissions, since it
// may hold an API key.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ---------------------------------------------------------------------------
// Single-key updates
// ---------------------------------------------------------------------------

type setter func(c *Config, value string) error

var setters = map[string]setter{
	"target_language": func(c *Config, v string) error {
		c.TargetLanguage = langmeta.Canonicalize(v)
		return nil
	},
	"translation_marker": func(c *Config, v string) error { c.TranslationMarker = v; return nil },
	"file_name":          func(c *Config, v string) error { c.FileName = v; return nil },
	"request_delay":      durationSetter(func(c *Config) *time.Duration { return &c.RequestDelay }),
	"log_file":           func(c *Config, v string) error { c.LogFile = v; return nil },
	"api.base_url":       func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	"api.model":          func(c *Config, v string) error { c.API.Model = v; return nil },
	"api.api_key":        func(c *Config, v string) error { c.API.APIKey = v; return nil },
	"api.temperature": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		c.API.Temperature = f
		return nil
	},
	"api.timeout": durationSetter(func(c *Config) *time.Duration { return &c.API.Timeout }),
	"api.proxy":   func(c *Config, v string) error { c.API.Proxy = v; return nil },
}

func durationSetter(field func(*Config) *time.Duration) setter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q (examples: 500ms, 2s, 1m)", v)
		}
		*field(c) = d
		return nil
	}
}

// Keys returns every key accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates one dotted key and validates the result. On error the
// configuration is left unchanged.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// Validate checks field constraints and reports every violation using the
// YAML key names.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, fe.Translate(translator)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
