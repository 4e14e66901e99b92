package countries

import (
	"context"

	"github.com/joefazee/findcountry/models"
)

// Repository defines the interface for stored country details
type Repository interface {
	Upsert(ctx context.Context, info *models.CountryInfo) error
	GetByName(ctx context.Context, name string) (*models.CountryInfo, error)
	GetAll(ctx context.Context) ([]models.CountryInfo, error)
	Delete(ctx context.Context, name string) error
}

// Service defines the interface for country detail business logic
type Service interface {
	GetCountryDetail(ctx context.Context, name string) (*CountryDetailResponse, error)
	GetSavedCountry(ctx context.Context, name string) (*CountryInfoResponse, error)
	ListSavedCountries(ctx context.Context) ([]CountryInfoResponse, error)
	DeleteSavedCountry(ctx context.Context, name string) error
	SaveFavoriteDetail(ctx context.Context, name string) error
}

// ListController defines the list state operations used by the handlers
type ListController interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Refresh(ctx context.Context) (Snapshot, error)
	SetQuery(ctx context.Context, query string) (Snapshot, error)
	SetSortOption(ctx context.Context, option SortOption) (Snapshot, error)
	ToggleFavorite(ctx context.Context, key string) (bool, Snapshot, error)
	ShowAll(ctx context.Context) (Snapshot, error)
}
