// File: cmd/threadstress/scenario.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scenario describes a threadstress run. Scenarios load from YAML so soak
// configurations can live next to the deployments they qualify.

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is the full configuration for one threadstress invocation.
type Scenario struct {
	// Limit bounds concurrently live library threads, 0 means unbounded.
	Limit   int             `yaml:"limit"`
	Soak    SoakScenario    `yaml:"soak"`
	TryLock TryLockScenario `yaml:"trylock"`
}

// SoakScenario drives the contended-counter workload. Pin spreads workers
// across logical CPUs round-robin.
type SoakScenario struct {
	Threads    int  `yaml:"threads"`
	Increments int  `yaml:"increments"`
	Recursive  bool `yaml:"recursive"`
	Pin        bool `yaml:"pin"`
}

// TryLockScenario drives the non-blocking acquisition workload. Durations
// are in milliseconds.
type TryLockScenario struct {
	Probes     int `yaml:"probes"`
	DurationMS int `yaml:"duration_ms"`
	PulseMS    int `yaml:"pulse_ms"`
}

func defaultScenario() *Scenario {
	return &Scenario{
		Soak: SoakScenario{
			Threads:    32,
			Increments: 2000,
		},
		TryLock: TryLockScenario{
			Probes:     4,
			DurationMS: 2000,
			PulseMS:    5,
		},
	}
}

// LoadScenario reads a scenario file, or returns the built-in scenario when
// path is empty. Absent fields keep their built-in values.
func LoadScenario(path string) (*Scenario, error) {
	sc := defaultScenario()
	if path == "" {
		return sc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	if err := yaml.Unmarshal(raw, sc); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if err := sc.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scenario %s", path)
	}
	return sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Limit < 0 {
		return errors.New("limit must be >= 0")
	}
	if sc.Soak.Threads <= 0 {
		return errors.New("soak.threads must be positive")
	}
	if sc.Soak.Increments <= 0 {
		return errors.New("soak.increments must be positive")
	}
	if sc.TryLock.Probes <= 0 {
		return errors.New("trylock.probes must be positive")
	}
	if sc.TryLock.DurationMS <= 0 || sc.TryLock.PulseMS <= 0 {
		return errors.New("trylock durations must be positive")
	}
	return nil
}
