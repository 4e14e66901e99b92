package countries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/findcountry/internal/formatter"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/models"
)

// SetQueryRequest represents the request to change the search query
type SetQueryRequest struct {
	Query string `json:"query"`
}

// SetSortRequest represents the request to change the sort option
type SetSortRequest struct {
	Option *int `json:"option" binding:"required"`
}

// CountryRow is one visible line of the country list
type CountryRow struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Capital    string  `json:"capital"`
	Region     string  `json:"region"`
	Area       float64 `json:"area"`
	Population int64   `json:"population"`
	Languages  string  `json:"languages"`
	Currencies string  `json:"currencies"`
	FlagURL    string  `json:"flag_url,omitempty"`
	Favorite   bool    `json:"favorite"`
}

// ListMeta describes the state the rows were taken from
type ListMeta struct {
	Query      string `json:"query"`
	Option     int    `json:"option"`
	OptionName string `json:"option_name"`
	Total      int    `json:"total"`
	Generation uint64 `json:"generation"`
	Loading    bool   `json:"loading"`
	LastError  string `json:"last_error,omitempty"`
}

// CountryListResponse is the visible list plus its state
type CountryListResponse struct {
	Rows []CountryRow `json:"rows"`
	Meta ListMeta     `json:"meta"`
}

// FavoriteResponse reports the favorite mark of one key
type FavoriteResponse struct {
	Key      string `json:"key"`
	Favorite bool   `json:"favorite"`
}

// CountryDetailResponse is the detail view of one country
type CountryDetailResponse struct {
	Name        string          `json:"name"`
	Official    string          `json:"official_name"`
	Code        string          `json:"code,omitempty"`
	Capital     string          `json:"capital"`
	Region      string          `json:"region"`
	Subregion   string          `json:"subregion"`
	Population  int64           `json:"population"`
	Area        string          `json:"area"`
	Languages   string          `json:"languages"`
	Currencies  string          `json:"currencies"`
	FlagURL     string          `json:"flag_url,omitempty"`
	CallingCode string          `json:"calling_code,omitempty"`
	Density     decimal.Decimal `json:"density"`
	Stale       bool            `json:"stale"`
}

// CountryInfoResponse represents a stored country detail
type CountryInfoResponse struct {
	CountryName  string    `json:"country_name"`
	OfficialName string    `json:"official_name"`
	Capital      string    `json:"capital"`
	Region       string    `json:"region"`
	Subregion    string    `json:"subregion"`
	Population   int64     `json:"population"`
	Area         float64   `json:"area"`
	Languages    []string  `json:"languages"`
	Currencies   []string  `json:"currencies"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCountryRow converts a record to a list row
func ToCountryRow(r restcountries.Record, favorite bool) CountryRow {
	return CountryRow{
		Key:        r.Key(),
		Name:       r.Name(),
		Capital:    r.Capital(),
		Region:     r.Region(),
		Area:       r.Area(),
		Population: r.Population(),
		Languages:  models.JoinList(r.Languages()),
		Currencies: models.JoinList(r.Currencies()),
		FlagURL:    r.FlagURL(),
		Favorite:   favorite,
	}
}

// ToCountryRows converts the visible list of a snapshot to rows
func ToCountryRows(snap Snapshot) []CountryRow {
	rows := make([]CountryRow, len(snap.View))
	for i, r := range snap.View {
		rows[i] = ToCountryRow(r, snap.Favorites.Has(r.Key()))
	}
	return rows
}

// ToCountryListResponse converts a snapshot to the list response
func ToCountryListResponse(snap Snapshot) *CountryListResponse {
	meta := ListMeta{
		Query:      snap.Query,
		Option:     int(snap.Option),
		OptionName: snap.Option.String(),
		Total:      snap.Total,
		Generation: snap.Generation,
		Loading:    snap.Loading,
	}
	if snap.LastError != nil {
		meta.LastError = snap.LastError.Error()
	}
	return &CountryListResponse{Rows: ToCountryRows(snap), Meta: meta}
}

// ToCountryDetailResponse converts a fetched record to the detail view
func ToCountryDetailResponse(r restcountries.Record) *CountryDetailResponse {
	return &CountryDetailResponse{
		Name:        r.Name(),
		Official:    r.OfficialName(),
		Code:        r.Code(),
		Capital:     r.Capital(),
		Region:      r.Region(),
		Subregion:   r.Subregion(),
		Population:  r.Population(),
		Area:        formatter.Area(r.Area()),
		Languages:   models.JoinList(r.Languages()),
		Currencies:  models.JoinList(r.CurrencyLabels()),
		FlagURL:     r.FlagURL(),
		CallingCode: formatter.CallingCode(r.Alpha2()),
		Density:     formatter.Density(r.Population(), r.Area()),
	}
}

// storedDetailResponse builds the detail view from a stored row
func storedDetailResponse(info *models.CountryInfo) *CountryDetailResponse {
	return &CountryDetailResponse{
		Name:       info.CountryName,
		Official:   info.OfficialName,
		Capital:    info.Capital,
		Region:     info.Region,
		Subregion:  info.Subregion,
		Population: info.Population,
		Area:       formatter.Area(info.Area),
		Languages:  models.JoinList(info.LanguageList()),
		Currencies: models.JoinList(info.CurrencyList()),
		Density:    formatter.Density(info.Population, info.Area),
		Stale:      true,
	}
}

// ToCountryInfo converts a fetched record to its stored form
func ToCountryInfo(r restcountries.Record) *models.CountryInfo {
	return &models.CountryInfo{
		CountryName:  r.Name(),
		OfficialName: r.OfficialName(),
		Capital:      r.Capital(),
		Region:       r.Region(),
		Subregion:    r.Subregion(),
		Population:   r.Population(),
		Area:         r.Area(),
		Languages:    models.JoinList(r.Languages()),
		Currencies:   models.JoinList(r.Currencies()),
	}
}

// ToCountryInfoResponse converts a stored row to its response
func ToCountryInfoResponse(info *models.CountryInfo) *CountryInfoResponse {
	return &CountryInfoResponse{
		CountryName:  info.CountryName,
		OfficialName: info.OfficialName,
		Capital:      info.Capital,
		Region:       info.Region,
		Subregion:    info.Subregion,
		Population:   info.Population,
		Area:         info.Area,
		Languages:    info.LanguageList(),
		Currencies:   info.CurrencyList(),
		UpdatedAt:    info.UpdatedAt,
	}
}

// ToCountryInfoResponseList converts stored rows to responses
func ToCountryInfoResponseList(infos []models.CountryInfo) []CountryInfoResponse {
	responses := make([]CountryInfoResponse, len(infos))
	for i := range infos {
		responses[i] = *ToCountryInfoResponse(&infos[i])
	}
	return responses
}
