// Package config reads the CLI and console settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIBase     = "DOCFORGE_API_BASE"
	EnvToken       = "DOCFORGE_TOKEN"
	EnvEnvironment = "DOCFORGE_ENV"
	EnvDebug       = "DOCFORGE_DEBUG"
	EnvSessionDB   = "DOCFORGE_SESSION_DB"
	EnvSessionTTL  = "DOCFORGE_SESSION_TTL"
	EnvTimezone    = "DOCFORGE_TIMEZONE"
	EnvHTTPTimeout = "DOCFORGE_HTTP_TIMEOUT"
	EnvConsoleAddr = "DOCFORGE_CONSOLE_ADDR"
)

// Defaults applied when a variable is unset.
const (
	DefaultAPIBase     = "http://localhost:8080"
	DefaultEnvironment = "development"
	DefaultSessionTTL  = 24 * time.Hour
	DefaultConsoleAddr = "127.0.0.1:8090"
)

const listenAddrTag = "listenaddr"

// Config holds resolved settings.
type Config struct {
	APIBase     string        `validate:"required,url"`
	Token       string        `validate:"omitempty,printascii"`
	Environment string        `validate:"oneof=development staging production"`
	Debug       bool
	SessionDB   string
	SessionTTL  time.Duration `validate:"gt=0"`
	Timezone    string        `validate:"omitempty,timezone"`
	HTTPTimeout time.Duration `validate:"gte=0"`
	ConsoleAddr string        `validate:"required,listenaddr"`
}

// IsProduction reports whether production logging should be used.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LookupFunc reads one variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads envFile (".env" when empty and present) and then the process
// environment, which takes precedence.
func Load(envFile string) (*Config, error) {
	return LoadWith(envFile, os.LookupEnv)
}

// LoadWith is Load with a custom environment lookup.
func LoadWith(envFile string, lookup LookupFunc) (*Config, error) {
	fileVars := map[string]string{}
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	vars, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		fileVars = vars
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileVars[key])
	}
	return parse(get)
}

func parse(get func(string) string) (*Config, error) {
	cfg := &Config{
		APIBase:     orDefault(get(EnvAPIBase), DefaultAPIBase),
		Token:       get(EnvToken),
		Environment: strings.ToLower(orDefault(get(EnvEnvironment), DefaultEnvironment)),
		SessionDB:   get(EnvSessionDB),
		SessionTTL:  DefaultSessionTTL,
		Timezone:    get(EnvTimezone),
		ConsoleAddr: orDefault(get(EnvConsoleAddr), DefaultConsoleAddr),
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")

	var errs []error
	if raw := get(EnvDebug); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvDebug, err))
		}
		cfg.Debug = v
	}
	if raw := get(EnvSessionTTL); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSessionTTL, err))
		}
		cfg.SessionTTL = d
	}
	if raw := get(EnvHTTPTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvHTTPTimeout, err))
		}
		cfg.HTTPTimeout = d
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved settings, for instance after CLI flag
// overrides.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid settings: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(listenAddrTag, isListenAddr); err != nil {
		panic(err)
	}
	return v
}

func isListenAddr(fl validator.FieldLevel) bool {
	input, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, port, err := net.SplitHostPort(input)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
