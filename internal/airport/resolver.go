// Package airport maps destination cities to the airport flight searches use.
package airport

import "github.com/Domenick1991/mysterytrips/internal/textutil"

// Resolver looks up the IATA code serving a city. It never guesses: an unknown
// (city, country) pair is reported as unresolved.
type Resolver interface {
	Resolve(city, country string) (string, bool)
}

type cityKey struct {
	city    string
	country string
}

// StaticResolver is a fixed lookup table. It is read-only after construction
// and safe for concurrent use.
type StaticResolver struct {
	table map[cityKey]string
}

// Entry is one row of a resolver table.
type Entry struct {
	City    string
	Country string
	Code    string
}

func NewStaticResolver(entries []Entry) *StaticResolver {
	r := &StaticResolver{table: make(map[cityKey]string, len(entries))}
	for _, e := range entries {
		r.table[key(e.City, e.Country)] = e.Code
	}
	return r
}

// NewDefaultResolver returns a resolver over the football cities the catalog covers.
func NewDefaultResolver() *StaticResolver {
	return NewStaticResolver(defaultEntries)
}

func (r *StaticResolver) Resolve(city, country string) (string, bool) {
	if city == "" {
		return "", false
	}
	code, ok := r.table[key(city, country)]
	return code, ok
}

func key(city, country string) cityKey {
	return cityKey{city: textutil.Fold(city), country: textutil.Fold(country)}
}

var _ Resolver = (*StaticResolver)(nil)
