package countries

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/models"
)

type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) FetchAll(ctx context.Context) ([]restcountries.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]restcountries.Record), args.Error(1)
}

func (m *MockDataSource) FetchByName(ctx context.Context, name string) ([]restcountries.Record, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]restcountries.Record), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, info *models.CountryInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*models.CountryInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CountryInfo), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]models.CountryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CountryInfo), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) GetCountryDetail(ctx context.Context, name string) (*CountryDetailResponse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CountryDetailResponse), args.Error(1)
}

func (m *MockService) GetSavedCountry(ctx context.Context, name string) (*CountryInfoResponse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CountryInfoResponse), args.Error(1)
}

func (m *MockService) ListSavedCountries(ctx context.Context) ([]CountryInfoResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CountryInfoResponse), args.Error(1)
}

func (m *MockService) DeleteSavedCountry(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockService) SaveFavoriteDetail(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockListController struct {
	mock.Mock
}

func (m *MockListController) Snapshot(ctx context.Context) (Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *MockListController) Refresh(ctx context.Context) (Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *MockListController) SetQuery(ctx context.Context, query string) (Snapshot, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *MockListController) SetSortOption(ctx context.Context, option SortOption) (Snapshot, error) {
	args := m.Called(ctx, option)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *MockListController) ToggleFavorite(ctx context.Context, key string) (bool, Snapshot, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(Snapshot), args.Error(2)
}

func (m *MockListController) ShowAll(ctx context.Context) (Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(Snapshot), args.Error(1)
}

type MockSanitizer struct {
	mock.Mock
}

func (m *MockSanitizer) StripHTML(s string) string {
	return m.Called(s).String(0)
}
