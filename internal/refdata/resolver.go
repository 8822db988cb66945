package refdata

import (
	"strings"

	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
)

// Resolver maps source-native airport identifiers to canonical IATA codes
// and supplies canonical Korean display names. It is built once from the
// embedded tables and is immutable afterwards; all lookups are pure.
type Resolver struct {
	byCode   map[string]AirportRecord // IATA code -> record (hub included)
	byIdent  map[string]string        // normalized identifier -> IATA code
	carriers map[string]string        // flight-number prefix -> airline name
	domestic []string                 // domestic IATA codes in table order
	hub      AirportRecord
}

// NewResolver parses the embedded reference tables and builds the lookup
// maps in both directions.
func NewResolver() (*Resolver, error) {
	t, err := load()
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		byCode:   make(map[string]AirportRecord, len(t.Airports)+1),
		byIdent:  make(map[string]string),
		carriers: make(map[string]string, len(t.Carriers)),
		hub:      t.Hub,
	}

	index := func(a AirportRecord) {
		r.byCode[a.Code] = a
		r.byIdent[normalizeIdent(a.Code)] = a.Code
		r.byIdent[normalizeIdent(a.Name)] = a.Code
		if a.NaID != "" {
			r.byIdent[normalizeIdent(a.NaID)] = a.Code
		}
		for _, alias := range a.Aliases {
			r.byIdent[normalizeIdent(alias)] = a.Code
		}
	}

	index(t.Hub)
	for _, a := range t.Airports {
		index(a)
		r.domestic = append(r.domestic, a.Code)
	}
	for prefix, name := range t.Carriers {
		r.carriers[prefix] = name
	}

	return r, nil
}

// ResolveCode maps a source-native airport identifier to its canonical IATA
// code. The identifier may already be an IATA code, an operations-API
// airport ID, or a free-text Korean city name (including slash-compound
// spellings). When the exact lookup fails, a second chance is taken on the
// whitespace/punctuation-normalized form. The second return value is false
// when no mapping exists; callers must skip such records.
func (r *Resolver) ResolveCode(ident string) (string, bool) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return "", false
	}
	if code, ok := r.byIdent[normalizeIdent(ident)]; ok {
		return code, true
	}
	return "", false
}

// DisplayName returns the canonical Korean display name for an IATA code.
func (r *Resolver) DisplayName(code string) (string, bool) {
	a, ok := r.byCode[code]
	if !ok {
		return "", false
	}
	return a.Name, true
}

// NumericID returns the operations-API airport identifier for an IATA code,
// used to build per-pair probe queries.
func (r *Resolver) NumericID(code string) (string, bool) {
	a, ok := r.byCode[code]
	if !ok || a.NaID == "" {
		return "", false
	}
	return a.NaID, true
}

// Region returns the region label of an airport.
func (r *Resolver) Region(code string) (string, bool) {
	a, ok := r.byCode[code]
	if !ok || a.Region == "" {
		return "", false
	}
	return a.Region, true
}

// CarrierName maps a flight-number prefix to the carrier's display name.
func (r *Resolver) CarrierName(prefix string) (string, bool) {
	name, ok := r.carriers[strings.ToUpper(strings.TrimSpace(prefix))]
	return name, ok
}

// Hub returns the hub airport, which is pre-seeded into every run's airport
// collection.
func (r *Resolver) Hub() entity.Airport {
	return entity.Airport{Code: r.hub.Code, Name: r.hub.Name}
}

// DomesticCodes returns the IATA codes of all domestic airports in table
// order. The hub is not part of the domestic pair enumeration.
func (r *Resolver) DomesticCodes() []string {
	out := make([]string, len(r.domestic))
	copy(out, r.domestic)
	return out
}

// normalizeIdent strips whitespace, slashes and parentheses so that spelling
// variants of the same city name collapse onto one key. Case folding keeps
// IATA codes and operations IDs case-insensitive.
func normalizeIdent(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case ' ', '\t', '/', '(', ')':
			continue
		}
		b.WriteRune(c)
	}
	return strings.ToUpper(b.String())
}
