package deps

import (
	"gorm.io/gorm"

	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/internal/sanitizer"
)

// Container holds all shared dependencies
type Container struct {
	DB        *gorm.DB
	Source    restcountries.DataSource
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
	Cache     cache.Cache[string]

	// Store module values as interfaces to avoid imports
	repositories map[string]interface{}
	services     map[string]interface{}
}

func NewContainer(db *gorm.DB,
	source restcountries.DataSource,
	sanitizer sanitizer.HTMLStripperer,
	log logger.Logger,
	c cache.Cache[string],
) *Container {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Container{
		DB:           db,
		Source:       source,
		Sanitizer:    sanitizer,
		Logger:       log,
		Cache:        c,
		repositories: make(map[string]interface{}),
		services:     make(map[string]interface{}),
	}
}

// RegisterRepository stores a repository with a key
func (c *Container) RegisterRepository(key string, repo interface{}) {
	c.repositories[key] = repo
}

// GetRepository retrieves a repository by key
func (c *Container) GetRepository(key string) interface{} {
	return c.repositories[key]
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	return c.services[key]
}
