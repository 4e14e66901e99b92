package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

// CallingCode returns the international dialling prefix for an ISO 3166-1
// alpha-2 region, e.g. "+679" for "FJ". Unknown regions yield "".
func CallingCode(alpha2 string) string {
	code := phonenumbers.GetCountryCodeForRegion(strings.ToUpper(strings.TrimSpace(alpha2)))
	if code == 0 {
		return ""
	}
	return "+" + strconv.Itoa(code)
}

// Density is population per km², rounded to two places. Zero area yields zero.
func Density(population int64, area float64) decimal.Decimal {
	if area <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(population).Div(decimal.NewFromFloat(area)).Round(2)
}

// Area renders an area the way the detail view shows it.
func Area(area float64) string {
	return fmt.Sprintf("%s km²", decimal.NewFromFloat(area).StringFixed(1))
}
