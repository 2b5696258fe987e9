package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

// AgentSeed is an agent account funded at boot.
type AgentSeed struct {
	ID       string           `yaml:"id"`
	Cash     float64          `yaml:"cash"`
	Holdings map[string]int64 `yaml:"holdings,omitempty"`
}

// Universe describes the instrument set and the funded agents a simulation
// run starts with.
type Universe struct {
	Instruments []marketv1.Instrument `yaml:"instruments"`
	Agents      []AgentSeed           `yaml:"agents,omitempty"`
}

// LoadUniverse reads and validates the instrument universe from a YAML file.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}

	return ParseUniverse(data)
}

// ParseUniverse parses and validates universe YAML.
func ParseUniverse(data []byte) (*Universe, error) {
	var universe Universe
	if err := yaml.Unmarshal(data, &universe); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}

	if len(universe.Instruments) == 0 {
		return nil, fmt.Errorf("universe has no instruments")
	}

	seen := make(map[string]bool, len(universe.Instruments))
	for i := range universe.Instruments {
		inst := &universe.Instruments[i]
		if inst.Symbol == "" {
			return nil, fmt.Errorf("instrument %d has no symbol", i)
		}
		if seen[inst.Symbol] {
			return nil, fmt.Errorf("duplicate symbol %s", inst.Symbol)
		}
		seen[inst.Symbol] = true

		if inst.Price < marketv1.MinPrice || inst.Price > marketv1.MaxPrice {
			return nil, fmt.Errorf("instrument %s price %f outside bounds", inst.Symbol, inst.Price)
		}
		if inst.Volatility < 0 {
			return nil, fmt.Errorf("instrument %s has negative volatility", inst.Symbol)
		}
		if inst.AvgDailyVolume <= 0 {
			inst.AvgDailyVolume = 100_000
		}
	}

	return &universe, nil
}
