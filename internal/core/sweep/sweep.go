// Package sweep describes a grid of simulation configurations: every listed
// strategy crossed with every listed prisoner count.
package sweep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/prisoners/internal/core/simulation"
	"github.com/example/prisoners/internal/core/strategy"
)

// Plan is the on-disk sweep description.
type Plan struct {
	Count      int      `yaml:"count"`
	Seed       *uint64  `yaml:"seed,omitempty"`
	Record     bool     `yaml:"record,omitempty"`
	Strategies []string `yaml:"strategies"`
	Prisoners  []int    `yaml:"prisoners"`
}

// Config is one cell of the sweep grid.
type Config struct {
	Index     int
	Strategy  strategy.Strategy
	Prisoners int
	Count     int
}

// LoadPlan reads and parses a YAML sweep plan from path.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses a YAML sweep plan.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse sweep plan: %w", err)
	}
	return &plan, nil
}

// Validate checks that the plan names at least one configuration and that
// every configuration would pass the simulation guards.
func (p *Plan) Validate() error {
	if len(p.Strategies) == 0 {
		return fmt.Errorf("sweep plan lists no strategies")
	}
	if len(p.Prisoners) == 0 {
		return fmt.Errorf("sweep plan lists no prisoner counts")
	}
	_, err := p.Expand()
	return err
}

// Expand returns the grid in plan order: strategies outermost, prisoner
// counts innermost.
func (p *Plan) Expand() ([]Config, error) {
	configs := make([]Config, 0, len(p.Strategies)*len(p.Prisoners))
	for _, token := range p.Strategies {
		s, err := strategy.Parse(token)
		if err != nil {
			return nil, err
		}
		for _, n := range p.Prisoners {
			guard := simulation.CanRunSimulation(simulation.RunContext{
				Strategy:  s,
				Count:     p.Count,
				Prisoners: n,
			})
			if err := guard.Error(); err != nil {
				return nil, fmt.Errorf("invalid sweep entry %s/%d: %w", s, n, err)
			}
			configs = append(configs, Config{
				Index:     len(configs),
				Strategy:  s,
				Prisoners: n,
				Count:     p.Count,
			})
		}
	}
	return configs, nil
}
