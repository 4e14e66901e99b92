package restcountries

import (
	"errors"
	"time"

	"github.com/joefazee/findcountry/internal/validator"
)

// Config tunes the restcountries client. The defaults mirror a 3 minute
// per-attempt timeout with a single retry and a 1.0 timeout multiplier.
type Config struct {
	BaseURL           string        `env:"RESTCOUNTRIES_BASE_URL" env-default:"https://restcountries.com" validate:"required,url"`
	Timeout           time.Duration `env:"FETCH_TIMEOUT" env-default:"180s" validate:"gt=0"`
	MaxRetries        int           `env:"FETCH_MAX_RETRIES" env-default:"1" validate:"gte=0,lte=10"`
	BackoffMultiplier float64       `env:"FETCH_BACKOFF_MULTIPLIER" env-default:"1" validate:"gte=0"`
	InitialBackoff    time.Duration `env:"FETCH_INITIAL_BACKOFF" env-default:"0s" validate:"gte=0"`
	Enabled           bool          `env:"FETCH_ENABLED" env-default:"true"`
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("restcountries base URL must be set")
	}
	if !validator.IsURL(c.BaseURL) {
		return errors.New("restcountries base URL must be an absolute URL")
	}
	if c.Timeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("fetch max retries cannot be negative")
	}
	if c.BackoffMultiplier < 0 {
		return errors.New("fetch backoff multiplier cannot be negative")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://restcountries.com",
		Timeout:           180 * time.Second,
		MaxRetries:        1,
		BackoffMultiplier: 1.0,
		Enabled:           true,
	}
}
