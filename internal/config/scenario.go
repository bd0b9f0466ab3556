package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a battle setup: two named teams of combatants, each
// with a class and a strategy kind.
type Scenario struct {
	Name  string          `yaml:"name" json:"name"`
	Team1 []CombatantSpec `yaml:"team1" json:"team1"`
	Team2 []CombatantSpec `yaml:"team2" json:"team2"`
}

// CombatantSpec is one combatant entry in a scenario file.
type CombatantSpec struct {
	Name     string       `yaml:"name" json:"name"`
	Class    string       `yaml:"class" json:"class"`
	Strategy string       `yaml:"strategy" json:"strategy"` // rulebased, scripted, human, oracle
	Script   []ScriptStep `yaml:"script,omitempty" json:"script,omitempty"`
}

// ScriptStep is one step of a scripted combatant's plan.
type ScriptStep struct {
	Action string `yaml:"action" json:"action"`
	Target string `yaml:"target" json:"target"`
	Amount int    `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// LoadScenario reads and validates a scenario yaml file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario yaml bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks the scenario is playable.
func (s *Scenario) Validate() error {
	if len(s.Team1) == 0 || len(s.Team2) == 0 {
		return fmt.Errorf("scenario needs at least one combatant per team")
	}
	for _, spec := range append(append([]CombatantSpec(nil), s.Team1...), s.Team2...) {
		if spec.Name == "" {
			return fmt.Errorf("scenario combatant is missing a name")
		}
		if spec.Class == "" {
			return fmt.Errorf("combatant %s is missing a class", spec.Name)
		}
		switch spec.Strategy {
		case "", "rulebased", "scripted", "human", "oracle":
		default:
			return fmt.Errorf("combatant %s has unknown strategy %q", spec.Name, spec.Strategy)
		}
	}
	return nil
}
