package countries

import (
	"errors"
	"time"
)

// Config represents the configuration for the countries module
type Config struct {
	MaxQueryLength       int           `env:"MAX_QUERY_LENGTH" env-default:"100" validate:"gt=0"`
	DetailCacheTTL       time.Duration `env:"DETAIL_CACHE_TTL" env-default:"10m" validate:"gte=0"`
	StoreFavoriteDetails bool          `env:"STORE_FAVORITE_DETAILS" env-default:"true"`
	FavoriteSaveTimeout  time.Duration `env:"FAVORITE_SAVE_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.MaxQueryLength > 0, errors.New("max query length must be positive")},
		{c.DetailCacheTTL >= 0, errors.New("detail cache ttl cannot be negative")},
		{c.FavoriteSaveTimeout > 0, errors.New("favorite save timeout must be positive")},
	}

	for _, check := range checks {
		if !check.ok {
			return check.err
		}
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		MaxQueryLength:       100,
		DetailCacheTTL:       10 * time.Minute,
		StoreFavoriteDetails: true,
		FavoriteSaveTimeout:  30 * time.Second,
	}
}
