package countries

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/findcountry/app/api"
	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/sanitizer"
	"github.com/joefazee/findcountry/internal/validator"
	"github.com/joefazee/findcountry/models"
)

// Handler handles HTTP requests for countries
type Handler struct {
	state     ListController
	service   Service
	sanitizer sanitizer.HTMLStripperer
	config    *Config
	logger    logger.Logger
}

// NewHandler creates a new country handler
func NewHandler(state ListController, service Service, s sanitizer.HTMLStripperer, config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = GetDefaultConfig()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{
		state:     state,
		service:   service,
		sanitizer: s,
		config:    config,
		logger:    log,
	}
}

// GetCountries godoc
// @Summary List visible countries
// @Description Get the country list as filtered and sorted by the current query and sort option
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=[]CountryRow,meta=ListMeta}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries [get]
func (h *Handler) GetCountries(c *gin.Context) {
	snap, err := h.state.Snapshot(c.Request.Context())
	if err != nil {
		h.stateError(c, err)
		return
	}
	h.listResponse(c, "Countries retrieved successfully", snap)
}

// RefreshCountries godoc
// @Summary Refresh the country list
// @Description Fetch every country from restcountries and recompute the visible list
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=[]CountryRow,meta=ListMeta}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/refresh [post]
func (h *Handler) RefreshCountries(c *gin.Context) {
	snap, err := h.state.Refresh(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPermissionDenied):
			api.ForbiddenResponse(c, "Network access not granted")
		case errors.Is(err, models.ErrStaleResponse):
			api.ErrorResponse(c, http.StatusConflict, "SUPERSEDED", "A newer refresh replaced this one", nil)
		case errors.Is(err, models.ErrNetwork):
			api.BadGatewayResponse(c, "Failed to fetch countries")
		default:
			h.stateError(c, err)
		}
		return
	}
	h.listResponse(c, "Countries refreshed successfully", snap)
}

// SetQuery godoc
// @Summary Change the search query
// @Description Filter the country list by name or capital, ignoring case
// @Tags countries
// @Accept json
// @Produce json
// @Param request body SetQueryRequest true "Search query"
// @Success 200 {object} api.Response{data=[]CountryRow,meta=ListMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/query [put]
func (h *Handler) SetQuery(c *gin.Context) {
	var req SetQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	query := req.Query
	if h.sanitizer != nil {
		query = h.sanitizer.StripHTML(query)
	}

	v := validator.New()
	v.Check(validator.MaxRunes(query, h.config.MaxQueryLength), "query",
		fmt.Sprintf("must not be longer than %d characters", h.config.MaxQueryLength))
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	snap, err := h.state.SetQuery(c.Request.Context(), query)
	if err != nil {
		h.stateError(c, err)
		return
	}
	h.listResponse(c, "Query updated successfully", snap)
}

// SetSortOption godoc
// @Summary Change the sort option
// @Description 0 area asc, 1 area desc, 2 population asc, 3 population desc, 4 name asc, 5 favorites only
// @Tags countries
// @Accept json
// @Produce json
// @Param request body SetSortRequest true "Sort option"
// @Success 200 {object} api.Response{data=[]CountryRow,meta=ListMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/sort [put]
func (h *Handler) SetSortOption(c *gin.Context) {
	var req SetSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	v.Check(validator.Between(*req.Option, int(SortAreaAsc), int(SortFavorites)), "option", "must be between 0 and 5")
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	snap, err := h.state.SetSortOption(c.Request.Context(), SortOption(*req.Option))
	if err != nil {
		if errors.Is(err, models.ErrInvalidSortOption) {
			api.ValidationErrorResponse(c, err.Error())
			return
		}
		h.stateError(c, err)
		return
	}
	h.listResponse(c, "Sort option updated successfully", snap)
}

// ShowAll godoc
// @Summary Show every country
// @Description Clear the query and show the full list by ascending area
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=[]CountryRow,meta=ListMeta}
// @Router /api/v1/countries/show-all [post]
func (h *Handler) ShowAll(c *gin.Context) {
	snap, err := h.state.ShowAll(c.Request.Context())
	if err != nil {
		h.stateError(c, err)
		return
	}
	h.listResponse(c, "Showing all countries", snap)
}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Mark or unmark a country as favorite by its key (cca3 code, or name when the code is missing)
// @Tags favorites
// @Produce json
// @Param key path string true "Country key"
// @Success 200 {object} api.Response{data=FavoriteResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/favorites/{key} [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	key := c.Param("key")
	if !validator.NotBlank(key) {
		api.ValidationErrorResponse(c, "Country key is required")
		return
	}

	favorite, snap, err := h.state.ToggleFavorite(c.Request.Context(), key)
	if err != nil {
		h.stateError(c, err)
		return
	}
	api.UpdatedResponse(c, "Favorite updated successfully", FavoriteResponse{Key: resolvedKey(snap, key), Favorite: favorite})
}

// resolvedKey returns the stored spelling of key: the matching favorite or
// visible record key, or key itself when neither knows it.
func resolvedKey(snap Snapshot, key string) string {
	if snap.Favorites.Has(key) {
		return key
	}
	for k := range snap.Favorites {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	for _, r := range snap.View {
		if strings.EqualFold(r.Key(), key) {
			return r.Key()
		}
	}
	return key
}

// GetFavorites godoc
// @Summary List favorite keys
// @Tags favorites
// @Produce json
// @Success 200 {object} api.Response{data=[]string}
// @Router /api/v1/countries/favorites [get]
func (h *Handler) GetFavorites(c *gin.Context) {
	snap, err := h.state.Snapshot(c.Request.Context())
	if err != nil {
		h.stateError(c, err)
		return
	}
	keys := snap.Favorites.Keys()
	api.ListResponse(c, "Favorites retrieved successfully", keys, len(keys))
}

// GetCountryDetail godoc
// @Summary Get country detail
// @Description Fetch the detail of a country by name and store it locally
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} api.Response{data=CountryDetailResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/detail/{name} [get]
func (h *Handler) GetCountryDetail(c *gin.Context) {
	name := c.Param("name")
	if !validator.NotBlank(name) {
		api.ValidationErrorResponse(c, "Country name is required")
		return
	}

	detail, err := h.service.GetCountryDetail(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCountryName):
			api.ValidationErrorResponse(c, err.Error())
		case errors.Is(err, models.ErrCountryNotFound):
			api.NotFoundResponse(c, "Country")
		case errors.Is(err, models.ErrPermissionDenied):
			api.ForbiddenResponse(c, "Network access not granted")
		case errors.Is(err, models.ErrNetwork):
			api.BadGatewayResponse(c, "Failed to fetch country detail")
		default:
			h.logger.Error(err, map[string]interface{}{"name": name, "operation": "country_detail"})
			api.InternalErrorResponse(c, "Failed to fetch country detail")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Country detail retrieved successfully", detail)
}

// GetSavedCountries godoc
// @Summary List stored countries
// @Tags saved
// @Produce json
// @Success 200 {object} api.Response{data=[]CountryInfoResponse}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/saved [get]
func (h *Handler) GetSavedCountries(c *gin.Context) {
	infos, err := h.service.ListSavedCountries(c.Request.Context())
	if err != nil {
		api.InternalErrorResponse(c, "Failed to fetch saved countries")
		return
	}
	api.ListResponse(c, "Saved countries retrieved successfully", infos, len(infos))
}

// GetSavedCountry godoc
// @Summary Get a stored country
// @Tags saved
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} api.Response{data=CountryInfoResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/saved/{name} [get]
func (h *Handler) GetSavedCountry(c *gin.Context) {
	info, err := h.service.GetSavedCountry(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Saved country")
			return
		}
		api.InternalErrorResponse(c, "Failed to fetch saved country")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Saved country retrieved successfully", info)
}

// DeleteSavedCountry godoc
// @Summary Delete a stored country
// @Tags saved
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} api.Response
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/saved/{name} [delete]
func (h *Handler) DeleteSavedCountry(c *gin.Context) {
	err := h.service.DeleteSavedCountry(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Saved country")
			return
		}
		api.InternalErrorResponse(c, "Failed to delete saved country")
		return
	}
	api.DeletedResponse(c, "Saved country deleted successfully")
}

func (h *Handler) listResponse(c *gin.Context, message string, snap Snapshot) {
	res := ToCountryListResponse(snap)
	api.SuccessResponseWithMeta(c, http.StatusOK, message, res.Rows, res.Meta)
}

func (h *Handler) stateError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrStateClosed) {
		api.ServiceUnavailableResponse(c, "Country list is not running")
		return
	}
	h.logger.Error(err, map[string]interface{}{"path": c.FullPath()})
	api.InternalErrorResponse(c, "Failed to update country list")
}
