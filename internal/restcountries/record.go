package restcountries

import (
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

const notAvailable = "N/A"

// Record is a read-only view over one country element of a restcountries
// response. Fields are extracted on demand; anything missing or of the wrong
// type falls back to a default instead of failing.
type Record struct {
	raw []byte
}

// NewRecord wraps the raw JSON object of a single country.
func NewRecord(raw []byte) Record {
	return Record{raw: raw}
}

func (r Record) str(def string, keys ...string) string {
	v, err := jsonparser.GetString(r.raw, keys...)
	if err != nil || strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Name is the common name, used for display.
func (r Record) Name() string {
	return r.str(notAvailable, "name", "common")
}

// CommonName is the common name as sent, empty when absent. Searches match
// against it so the display placeholder never matches a query.
func (r Record) CommonName() string {
	return r.str("", "name", "common")
}

func (r Record) OfficialName() string {
	return r.str(notAvailable, "name", "official")
}

// Code is the ISO 3166-1 alpha-3 code, empty when absent.
func (r Record) Code() string {
	return strings.ToUpper(r.str("", "cca3"))
}

// Alpha2 is the ISO 3166-1 alpha-2 code, empty when absent.
func (r Record) Alpha2() string {
	return strings.ToUpper(r.str("", "cca2"))
}

// Key identifies the record for favorites: the alpha-3 code when present,
// the common name otherwise.
func (r Record) Key() string {
	if code := r.Code(); code != "" {
		return code
	}
	return r.Name()
}

// Capital is the first listed capital.
func (r Record) Capital() string {
	return r.str(notAvailable, "capital", "[0]")
}

// Capitals lists every capital in document order.
func (r Record) Capitals() []string {
	var out []string
	_, _ = jsonparser.ArrayEach(r.raw, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.String {
			return
		}
		if s, perr := jsonparser.ParseString(value); perr == nil && s != "" {
			out = append(out, s)
		}
	}, "capital")
	return out
}

func (r Record) Region() string {
	return r.str(notAvailable, "region")
}

func (r Record) Subregion() string {
	return r.str(notAvailable, "subregion")
}

// Area in square kilometres, never negative.
func (r Record) Area() float64 {
	v, err := jsonparser.GetFloat(r.raw, "area")
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Population, never negative.
func (r Record) Population() int64 {
	v, err := jsonparser.GetInt(r.raw, "population")
	if err != nil {
		f, ferr := jsonparser.GetFloat(r.raw, "population")
		if ferr != nil {
			return 0
		}
		v = int64(f)
	}
	if v < 0 {
		return 0
	}
	return v
}

// Languages returns language names in document order.
func (r Record) Languages() []string {
	var out []string
	_ = jsonparser.ObjectEach(r.raw, func(_ []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.String {
			return nil
		}
		if s, err := jsonparser.ParseString(value); err == nil && s != "" {
			out = append(out, s)
		}
		return nil
	}, "languages")
	return out
}

// Currencies returns the currency codes in document order.
func (r Record) Currencies() []string {
	var out []string
	_ = jsonparser.ObjectEach(r.raw, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		if s, err := jsonparser.ParseString(key); err == nil && s != "" {
			out = append(out, s)
		}
		return nil
	}, "currencies")
	return out
}

// CurrencyLabels renders each currency as "name (symbol)".
func (r Record) CurrencyLabels() []string {
	var out []string
	_ = jsonparser.ObjectEach(r.raw, func(_ []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.Object {
			return nil
		}
		c := Record{raw: value}
		out = append(out, fmt.Sprintf("%s (%s)", c.str(notAvailable, "name"), c.str(notAvailable, "symbol")))
		return nil
	}, "currencies")
	return out
}

// FlagURL is the PNG flag, empty when absent.
func (r Record) FlagURL() string {
	return r.str("", "flags", "png")
}

// ParseRecords splits a JSON array body into records. Elements that are not
// objects are skipped.
func ParseRecords(body []byte) ([]Record, error) {
	records := make([]Record, 0)
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.Object {
			return
		}
		records = append(records, Record{raw: value})
	})
	if err != nil {
		return nil, fmt.Errorf("decode country array: %w", err)
	}
	return records, nil
}
