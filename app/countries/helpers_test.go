package countries

import (
	"encoding/json"

	"github.com/joefazee/findcountry/internal/restcountries"
)

type countryFixture struct {
	name       string
	code       string
	capitals   []string
	area       float64
	population int64
}

func (f countryFixture) record() restcountries.Record {
	doc := map[string]interface{}{
		"name":       map[string]string{"common": f.name, "official": "Republic of " + f.name},
		"area":       f.area,
		"population": f.population,
		"region":     "Europe",
		"languages":  map[string]string{"fra": "French"},
		"currencies": map[string]interface{}{"EUR": map[string]string{"name": "Euro", "symbol": "€"}},
	}
	if f.code != "" {
		doc["cca3"] = f.code
	}
	if f.capitals != nil {
		doc["capital"] = f.capitals
	}
	raw, _ := json.Marshal(doc)
	return restcountries.NewRecord(raw)
}

func records(fixtures ...countryFixture) []restcountries.Record {
	out := make([]restcountries.Record, len(fixtures))
	for i, f := range fixtures {
		out[i] = f.record()
	}
	return out
}

func names(rs []restcountries.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}

var (
	france  = countryFixture{name: "France", capitals: []string{"Paris"}, area: 551695, population: 67000000}
	fiji    = countryFixture{name: "Fiji", capitals: []string{"Suva"}, area: 18274, population: 896444}
	finland = countryFixture{name: "Finland", code: "FIN", capitals: []string{"Helsinki"}, area: 338424, population: 5530719}
	nauru   = countryFixture{name: "Nauru", code: "NRU", area: 21, population: 12511}
	bolivia = countryFixture{name: "Bolivia", code: "BOL", capitals: []string{"Sucre", "La Paz"}, area: 1098581, population: 11673029}
)
