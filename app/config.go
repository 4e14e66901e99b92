package app

import (
	"github.com/joefazee/findcountry/app/countries"
	"github.com/joefazee/findcountry/app/database"
	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/nexus"
	"github.com/joefazee/findcountry/internal/restcountries"
)

type Config struct {
	DB        database.Config
	Fetch     restcountries.Config
	Cache     cache.Config
	Countries countries.Config

	AppHost  string `env:"APP_HOST" env-default:"localhost"`
	AppPort  string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// Validate runs the per-section checks the struct tags cannot express.
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	return c.Countries.Validate()
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig(opts ...nexus.LoaderOption) (*Config, error) {
	c := &Config{}
	if err := nexus.NewLoader(opts...).Load(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
