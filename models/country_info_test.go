package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryInfo(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		c := CountryInfo{}
		assert.Equal(t, "country_info", c.TableName())
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			info    CountryInfo
			wantErr error
		}{
			{
				name: "valid",
				info: CountryInfo{CountryName: "France", Population: 67000000, Area: 551695},
			},
			{
				name:    "blank name",
				info:    CountryInfo{CountryName: "   "},
				wantErr: ErrInvalidCountryName,
			},
			{
				name:    "negative population",
				info:    CountryInfo{CountryName: "Fiji", Population: -1},
				wantErr: ErrInvalidPopulation,
			},
			{
				name:    "negative area",
				info:    CountryInfo{CountryName: "Fiji", Area: -0.5},
				wantErr: ErrInvalidArea,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.info.Validate()
				if tt.wantErr == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("Lists", func(t *testing.T) {
		c := CountryInfo{
			Languages:  JoinList([]string{"English", "Fijian", "Fiji Hindi"}),
			Currencies: JoinList(nil),
		}

		assert.Equal(t, "English, Fijian, Fiji Hindi", c.Languages)
		assert.Equal(t, []string{"English", "Fijian", "Fiji Hindi"}, c.LanguageList())
		assert.Equal(t, "N/A", c.Currencies)
		assert.Empty(t, c.CurrencyList())
	})
}
