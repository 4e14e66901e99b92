package countries

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/findcountry/internal/deps"
	"github.com/joefazee/findcountry/internal/restcountries"
)

const (
	CountryInfoRepoKey = "country_info_repository"
	CountryServiceKey  = "country_service"
	ListStateKey       = "country_list_state"
	ConfigKey          = "countries_config"
)

// Init builds the repository, the detail service and the list state and
// registers them in the container. The caller must Run the returned state.
func Init(container *deps.Container, config *Config) *ListState {
	if config == nil {
		config = GetDefaultConfig()
	}

	repo := NewRepository(container.DB)
	container.RegisterRepository(CountryInfoRepoKey, repo)

	srvs := NewService(repo, container.Source, container.Cache, config, container.Logger)
	container.RegisterService(CountryServiceKey, srvs)

	state := NewListState(container.Source, container.Logger)
	state.OnFavoriteAdded(func(ctx context.Context, rec restcountries.Record) {
		_ = srvs.SaveFavoriteDetail(ctx, rec.Name())
	})
	container.RegisterService(ListStateKey, state)
	container.RegisterService(ConfigKey, config)

	return state
}

// Mount mounts the country routes. Init must have run on the container.
func Mount(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	countriesGroup := r.Group("/countries")
	countriesGroup.GET("", handler.GetCountries)
	countriesGroup.POST("/refresh", handler.RefreshCountries)
	countriesGroup.PUT("/query", handler.SetQuery)
	countriesGroup.PUT("/sort", handler.SetSortOption)
	countriesGroup.POST("/show-all", handler.ShowAll)
	countriesGroup.GET("/favorites", handler.GetFavorites)
	countriesGroup.POST("/favorites/:key", handler.ToggleFavorite)
	countriesGroup.GET("/detail/:name", handler.GetCountryDetail)
	countriesGroup.GET("/saved", handler.GetSavedCountries)
	countriesGroup.GET("/saved/:name", handler.GetSavedCountry)
	countriesGroup.DELETE("/saved/:name", handler.DeleteSavedCountry)
}

// createHandler creates a handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	state := container.GetService(ListStateKey).(ListController)
	srvs := container.GetService(CountryServiceKey).(Service)
	config, _ := container.GetService(ConfigKey).(*Config)

	return NewHandler(state, srvs, container.Sanitizer, config, container.Logger)
}
