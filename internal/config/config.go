// Package config loads folio settings from defaults, an optional config
// file, a .env file and FOLIO_* environment variables, in rising order of
// precedence. Command-line flags bound by the caller win over all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/kit/markdown"
)

const EnvPrefix = "FOLIO"

type Config struct {
	Port        int           `mapstructure:"port"`
	Dev         bool          `mapstructure:"dev"`
	ContentDir  string        `mapstructure:"content_dir"`
	ContentURL  string        `mapstructure:"content_url"`
	OutDir      string        `mapstructure:"out_dir"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	Markdown    Markdown      `mapstructure:"markdown"`
	Site        Site          `mapstructure:"site"`
	Guestbook   Guestbook     `mapstructure:"guestbook"`
	Drawbook    Drawbook      `mapstructure:"drawbook"`
}

type Markdown struct {
	Engine string `mapstructure:"engine"`
	Style  string `mapstructure:"style"`
}

type Site struct {
	Name    string `mapstructure:"name"`
	Tagline string `mapstructure:"tagline"`
	Icon    string `mapstructure:"icon"`
}

type Guestbook struct {
	Endpoint string `mapstructure:"endpoint"`
}

type Drawbook struct {
	WorkerURL   string `mapstructure:"worker_url"`
	FormURL     string `mapstructure:"form_url"`
	FormEntryID string `mapstructure:"form_entry_id"`
	SheetURL    string `mapstructure:"sheet_url"`
}

var defaults = map[string]any{
	"port":            8080,
	"dev":             false,
	"content_dir":     "content",
	"content_url":     "",
	"out_dir":         "dist",
	"session_ttl":     "30m",
	"cors_origins":    []string{},
	"markdown.engine": markdown.EngineBlackfriday,
	"markdown.style":  markdown.DefaultStyle,
	"site.name":       seo.DefaultSiteName,
	"site.tagline":    seo.DefaultTagline,
	"site.icon":       seo.DefaultIcon,

	"guestbook.endpoint":     "",
	"drawbook.worker_url":    "",
	"drawbook.form_url":      "",
	"drawbook.form_entry_id": "",
	"drawbook.sheet_url":     "",
}

// NewViper returns a viper instance with every key defaulted and environment
// lookups enabled, e.g. FOLIO_MARKDOWN_ENGINE for markdown.engine.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present) and the config file, then decodes and
// validates v. An empty configFile searches for folio.{yaml,yml,json} in the
// working directory; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("folio")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

var httpURL = validation.Match(regexp.MustCompile(`^https?://\S+$`)).Error("must be an http(s) URL")

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ContentDir, validation.When(c.ContentURL == "", validation.Required)),
		validation.Field(&c.ContentURL, httpURL),
		validation.Field(&c.SessionTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.CORSOrigins, validation.Each(httpURL)),
		validation.Field(&c.Markdown),
		validation.Field(&c.Site),
		validation.Field(&c.Guestbook),
		validation.Field(&c.Drawbook),
	)
}

func (m Markdown) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Engine, validation.Required, validation.In(markdown.EngineBlackfriday, markdown.EngineGoldmark)),
	)
}

func (s Site) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
	)
}

func (g Guestbook) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Endpoint, httpURL),
	)
}

func (d Drawbook) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.WorkerURL, httpURL),
		validation.Field(&d.FormURL, httpURL),
		validation.Field(&d.SheetURL, httpURL),
		validation.Field(&d.FormEntryID, validation.When(d.FormURL != "", validation.Required)),
	)
}

// Addr is the listen address for Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
