package models

import (
	"strings"
	"time"
)

// CountryInfo is the locally stored detail of a country, keyed by its display name.
type CountryInfo struct {
	CountryName  string    `gorm:"type:varchar(150);primaryKey" json:"country_name"`
	OfficialName string    `gorm:"type:varchar(255);not null" json:"official_name"`
	Capital      string    `gorm:"type:varchar(150);not null" json:"capital"`
	Region       string    `gorm:"type:varchar(100);not null" json:"region"`
	Subregion    string    `gorm:"type:varchar(100);not null" json:"subregion"`
	Population   int64     `gorm:"not null" json:"population"`
	Area         float64   `gorm:"not null" json:"area"`
	Languages    string    `gorm:"type:text" json:"languages"`
	Currencies   string    `gorm:"type:text" json:"currencies"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for CountryInfo model
func (*CountryInfo) TableName() string {
	return "country_info"
}

// LanguageList splits the stored languages back into a slice.
func (c *CountryInfo) LanguageList() []string {
	return splitList(c.Languages)
}

// CurrencyList splits the stored currencies back into a slice.
func (c *CountryInfo) CurrencyList() []string {
	return splitList(c.Currencies)
}

// Validate performs validation on the country info model
func (c *CountryInfo) Validate() error {
	if strings.TrimSpace(c.CountryName) == "" {
		return ErrInvalidCountryName
	}
	if c.Population < 0 {
		return ErrInvalidPopulation
	}
	if c.Area < 0 {
		return ErrInvalidArea
	}
	return nil
}

// JoinList renders a list the way it is stored: comma separated, "N/A" when empty.
func JoinList(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

func splitList(s string) []string {
	if s == "" || s == "N/A" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
