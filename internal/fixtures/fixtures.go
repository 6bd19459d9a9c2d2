// Package fixtures loads the end-to-end scenario data used by the
// species package's tests, the same way internal/game's area and item
// data in this codebase's lineage is authored as embedded TOML rather
// than inline Go literals.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed scenarios.toml
var scenariosTOML []byte

// Scenario is one named end-to-end test case: the expected count sequence
// for a grammar described in prose in description, built by hand in the
// test that consumes it (a TOML file has no good way to carry user
// builder/combine closures).
type Scenario struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Counts      []int  `toml:"counts"`
}

type scenarioFile struct {
	Scenario []Scenario `toml:"scenario"`
}

// LoadScenarios parses the embedded scenario table.
func LoadScenarios() ([]Scenario, error) {
	var f scenarioFile
	if err := toml.Unmarshal(scenariosTOML, &f); err != nil {
		return nil, fmt.Errorf("fixtures: decode scenarios.toml: %w", err)
	}
	return f.Scenario, nil
}

// MustScenario looks up one scenario by name, panicking if it is absent —
// acceptable in test helper code where the name is always a literal next
// to the call site.
func MustScenario(name string) Scenario {
	scenarios, err := LoadScenarios()
	if err != nil {
		panic(err)
	}
	for _, s := range scenarios {
		if s.Name == name {
			return s
		}
	}
	panic(fmt.Sprintf("fixtures: no such scenario %q", name))
}
