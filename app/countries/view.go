package countries

import (
	"sort"
	"strings"

	"github.com/joefazee/findcountry/internal/restcountries"
)

// SortOption selects how the visible list is ordered.
type SortOption int

const (
	SortAreaAsc SortOption = iota
	SortAreaDesc
	SortPopulationAsc
	SortPopulationDesc
	SortNameAsc
	SortFavorites
)

func (o SortOption) Valid() bool {
	return o >= SortAreaAsc && o <= SortFavorites
}

func (o SortOption) String() string {
	switch o {
	case SortAreaAsc:
		return "area_asc"
	case SortAreaDesc:
		return "area_desc"
	case SortPopulationAsc:
		return "population_asc"
	case SortPopulationDesc:
		return "population_desc"
	case SortNameAsc:
		return "name_asc"
	case SortFavorites:
		return "favorites"
	default:
		return "unknown"
	}
}

// FavoriteSet holds record keys marked as favorite.
type FavoriteSet map[string]struct{}

func (f FavoriteSet) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Toggle flips membership of key and reports whether it is now a favorite.
func (f FavoriteSet) Toggle(key string) bool {
	if f.Has(key) {
		delete(f, key)
		return false
	}
	f[key] = struct{}{}
	return true
}

// Keys returns the favorite keys in ascending order.
func (f FavoriteSet) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f FavoriteSet) Clone() FavoriteSet {
	out := make(FavoriteSet, len(f))
	for k := range f {
		out[k] = struct{}{}
	}
	return out
}

// Filter keeps the records whose name or joined capitals contain query,
// ignoring case. A blank query keeps everything in input order.
func Filter(records []restcountries.Record, query string) []restcountries.Record {
	out := make([]restcountries.Record, 0, len(records))
	if strings.TrimSpace(query) == "" {
		return append(out, records...)
	}

	needle := strings.ToLower(query)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.CommonName()), needle) ||
			strings.Contains(strings.ToLower(strings.Join(r.Capitals(), ",")), needle) {
			out = append(out, r)
		}
	}
	return out
}

type sortEntry struct {
	record     restcountries.Record
	name       string
	area       float64
	population int64
}

// Sort returns a stably ordered copy of records. SortFavorites does not
// order anything and returns the records unchanged.
func Sort(records []restcountries.Record, option SortOption) []restcountries.Record {
	entries := make([]sortEntry, len(records))
	for i, r := range records {
		entries[i] = sortEntry{record: r, name: r.Name(), area: r.Area(), population: r.Population()}
	}

	var less func(a, b sortEntry) bool
	switch option {
	case SortAreaAsc:
		less = func(a, b sortEntry) bool { return a.area < b.area }
	case SortAreaDesc:
		less = func(a, b sortEntry) bool { return a.area > b.area }
	case SortPopulationAsc:
		less = func(a, b sortEntry) bool { return a.population < b.population }
	case SortPopulationDesc:
		less = func(a, b sortEntry) bool { return a.population > b.population }
	case SortNameAsc:
		less = func(a, b sortEntry) bool { return a.name < b.name }
	}

	if less != nil {
		sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
	}

	out := make([]restcountries.Record, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}

// FavoritesOnly keeps the records whose key is in favorites, in input order.
func FavoritesOnly(records []restcountries.Record, favorites FavoriteSet) []restcountries.Record {
	out := make([]restcountries.Record, 0, len(favorites))
	for _, r := range records {
		if favorites.Has(r.Key()) {
			out = append(out, r)
		}
	}
	return out
}

// Compute derives the visible list from the full list and the current
// query, option and favorites.
func Compute(full []restcountries.Record, query string, option SortOption, favorites FavoriteSet) []restcountries.Record {
	if option == SortFavorites {
		return FavoritesOnly(Filter(full, query), favorites)
	}
	return Sort(Filter(full, query), option)
}
