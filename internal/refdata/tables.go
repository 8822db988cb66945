// Package refdata holds the immutable reference tables used to reconcile the
// three upstream airport-identifier namespaces (IATA codes, operations-API
// airport IDs, free-text Korean city names) into one canonical code space,
// and to backfill airline names from flight-number prefixes.
//
// The tables ship embedded in the binary and are parsed once; the Resolver
// built from them is a read-only value that is safe for concurrent use and is
// passed explicitly to the components that need it.
package refdata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// AirportRecord is one airport row of the reference tables.
type AirportRecord struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Region  string   `yaml:"region"`
	NaID    string   `yaml:"naId"`
	Aliases []string `yaml:"aliases"`
}

// tables is the on-disk shape of tables.yaml.
type tables struct {
	Hub      AirportRecord     `yaml:"hub"`
	Airports []AirportRecord   `yaml:"airports"`
	Carriers map[string]string `yaml:"carriers"`
}

// validate rejects structurally broken tables early, at process start.
func (t *tables) validate() error {
	if t.Hub.Code == "" || t.Hub.Name == "" {
		return fmt.Errorf("refdata: hub airport must have code and name")
	}
	seen := make(map[string]bool, len(t.Airports)+1)
	seen[t.Hub.Code] = true
	for _, a := range t.Airports {
		if a.Code == "" || a.Name == "" {
			return fmt.Errorf("refdata: airport entry %+v must have code and name", a)
		}
		if len(a.Code) != 3 {
			return fmt.Errorf("refdata: airport code %q is not a 3-letter IATA code", a.Code)
		}
		if seen[a.Code] {
			return fmt.Errorf("refdata: duplicate airport code %q", a.Code)
		}
		seen[a.Code] = true
	}
	if len(t.Carriers) == 0 {
		return fmt.Errorf("refdata: carrier table must not be empty")
	}
	return nil
}

// load parses and validates the embedded tables.
func load() (*tables, error) {
	var t tables
	if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
		return nil, fmt.Errorf("parse embedded reference tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
