package countries

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/models"
)

const detailCachePrefix = "detail:"

// service implements the Service interface
type service struct {
	repo   Repository
	source restcountries.DataSource
	cache  cache.Cache[string]
	config *Config
	logger logger.Logger
}

// NewService creates a new country detail service
func NewService(repo Repository, source restcountries.DataSource, c cache.Cache[string], config *Config, log logger.Logger) Service {
	if config == nil {
		config = GetDefaultConfig()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &service{
		repo:   repo,
		source: source,
		cache:  c,
		config: config,
		logger: log,
	}
}

func detailCacheKey(name string) string {
	return detailCachePrefix + strings.ToLower(strings.TrimSpace(name))
}

// GetCountryDetail returns the detail of a country by name. A fresh fetch
// is stored before it is returned. When the network fails, a stored copy
// is returned marked stale.
func (s *service) GetCountryDetail(ctx context.Context, name string) (*CountryDetailResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidCountryName
	}

	if detail, ok := s.cachedDetail(ctx, name); ok {
		return detail, nil
	}

	rec, err := s.fetchAndStore(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrCountryNotFound) || errors.Is(err, models.ErrInvalidCountryName) {
			return nil, err
		}
		stored, storeErr := s.repo.GetByName(ctx, name)
		if storeErr != nil {
			return nil, err
		}
		s.logger.Info("serving stored country detail", map[string]interface{}{"name": name, "cause": err.Error()})
		return storedDetailResponse(stored), nil
	}

	detail := ToCountryDetailResponse(rec)
	s.cacheDetail(ctx, name, detail)
	return detail, nil
}

// SaveFavoriteDetail fetches and stores the detail of a new favorite
func (s *service) SaveFavoriteDetail(ctx context.Context, name string) error {
	if !s.config.StoreFavoriteDetails {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.FavoriteSaveTimeout)
	defer cancel()

	rec, err := s.fetchAndStore(ctx, name)
	if err != nil {
		s.logger.Error(err, map[string]interface{}{"name": name, "operation": "save_favorite_detail"})
		return err
	}
	s.cacheDetail(ctx, name, ToCountryDetailResponse(rec))
	return nil
}

// GetSavedCountry returns a stored country by exact name
func (s *service) GetSavedCountry(ctx context.Context, name string) (*CountryInfoResponse, error) {
	info, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return ToCountryInfoResponse(info), nil
}

// ListSavedCountries returns every stored country
func (s *service) ListSavedCountries(ctx context.Context) ([]CountryInfoResponse, error) {
	infos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCountryInfoResponseList(infos), nil
}

// DeleteSavedCountry removes a stored country and its cached detail
func (s *service) DeleteSavedCountry(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrRecordNotFound
		}
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, detailCacheKey(name))
	}
	return nil
}

func (s *service) fetchAndStore(ctx context.Context, name string) (restcountries.Record, error) {
	records, err := s.source.FetchByName(ctx, name)
	if err != nil {
		return restcountries.Record{}, err
	}
	if len(records) == 0 {
		return restcountries.Record{}, models.ErrCountryNotFound
	}

	rec := bestMatch(records, name)
	info := ToCountryInfo(rec)
	if err := info.Validate(); err != nil {
		return restcountries.Record{}, err
	}
	if err := s.repo.Upsert(ctx, info); err != nil {
		s.logger.Error(err, map[string]interface{}{"name": info.CountryName, "operation": "store_country_info"})
	}
	return rec, nil
}

// bestMatch prefers the record whose common name equals name, then the
// first one returned.
func bestMatch(records []restcountries.Record, name string) restcountries.Record {
	for _, r := range records {
		if strings.EqualFold(r.Name(), name) {
			return r
		}
	}
	return records[0]
}

func (s *service) cachedDetail(ctx context.Context, name string) (*CountryDetailResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, detailCacheKey(name))
	if err != nil {
		return nil, false
	}
	var detail CountryDetailResponse
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return nil, false
	}
	return &detail, true
}

func (s *service) cacheDetail(ctx context.Context, name string, detail *CountryDetailResponse) {
	if s.cache == nil || s.config.DetailCacheTTL == 0 {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, detailCacheKey(name), string(raw), s.config.DetailCacheTTL); err != nil {
		s.logger.Debug("detail cache write failed", map[string]interface{}{"name": name, "error": err.Error()})
	}
}
