package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvEndpoint = "CHANGEDIFF_ENDPOINT"
	EnvToken    = "CHANGEDIFF_TOKEN"
	EnvLogLevel = "CHANGEDIFF_LOG_LEVEL"
)

// DefaultPageSize is how many changeset specs are requested per page.
const DefaultPageSize = 100

// ErrEndpointRequired is returned when a remote command has no endpoint.
var ErrEndpointRequired = errors.New("endpoint is required (set --endpoint or " + EnvEndpoint + ")")

// Config is the command-line configuration shared by every subcommand.
type Config struct {
	Endpoint    string `validate:"omitempty,url"`
	Token       string
	LogLevel    string `validate:"oneof=trace debug info warn error disabled"`
	LogFormat   string `validate:"oneof=console json"`
	LogFile     string
	Light       bool
	LineNumbers bool
	Expanded    bool
	Local       bool // compare a local git repository
	PageSize    int  `validate:"min=1,max=1000"`
}

// DefaultConfig returns the configuration before flags are applied, with
// environment fallbacks filled in.
func DefaultConfig() Config {
	return Config{
		Endpoint:    os.Getenv(EnvEndpoint),
		Token:       os.Getenv(EnvToken),
		LogLevel:    envOr(EnvLogLevel, "info"),
		LogFormat:   "json",
		LineNumbers: true,
		PageSize:    DefaultPageSize,
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", strings.ToLower(fe.Field()), fe.Value(), fe.Tag()))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// RequireEndpoint reports ErrEndpointRequired when no endpoint is set.
func (c Config) RequireEndpoint() error {
	if c.Endpoint == "" {
		return ErrEndpointRequired
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
