package main

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"qmechsim/qsystem"
	"qmechsim/tensor"
)

// maxQubits bounds the register: every gate builds a 2^n x 2^n operator.
const maxQubits = 8

// Config is the optional YAML configuration, e.g.
//
//	verbose: true
//	qubits: 3
//	classical_bits: 3
//	initial_states: ["0", "+", "1/sqrt2, i/sqrt2"]
type Config struct {
	// Verbose turns on step-by-step diagnostics.
	Verbose bool `yaml:"verbose"`

	// Qubits is the register size.
	Qubits int `yaml:"qubits"`

	// ClassicalBits is the number of classical bits.
	ClassicalBits int `yaml:"classical_bits"`

	// InitialStates holds one entry per qubit, either a ket name or two
	// comma-separated amplitudes. Empty means all |0⟩.
	InitialStates []string `yaml:"initial_states"`
}

// DefaultConfig returns a three qubit, three classical bit register.
func DefaultConfig() Config {
	return Config{
		Qubits:        3,
		ClassicalBits: 3,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate checks sizes and that every initial state parses.
func (c Config) Validate() error {
	if c.Qubits < 1 {
		return errors.Errorf("qubits must be at least 1, got %d", c.Qubits)
	}
	if c.Qubits > maxQubits {
		return errors.Errorf("qubits must be at most %d, got %d", maxQubits, c.Qubits)
	}
	if c.ClassicalBits < 0 {
		return errors.Errorf("classical_bits must not be negative, got %d", c.ClassicalBits)
	}
	_, err := c.initialVectors()
	return err
}

func (c Config) initialVectors() ([]tensor.Vector, error) {
	if len(c.InitialStates) == 0 {
		return nil, nil
	}
	if len(c.InitialStates) != c.Qubits {
		return nil, errors.Errorf("initial_states has %d entries for %d qubits", len(c.InitialStates), c.Qubits)
	}
	states := make([]tensor.Vector, len(c.InitialStates))
	for i, s := range c.InitialStates {
		v, err := parseKetInput(s)
		if err != nil {
			return nil, errors.Wrapf(err, "initial_states[%d]", i)
		}
		states[i] = v
	}
	return states, nil
}

// NewSystem builds the register described by c.
func (c Config) NewSystem(logger *zap.Logger) (*qsystem.System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sys, err := qsystem.New(c.Qubits, c.ClassicalBits, qsystem.Config{
		Verbose: c.Verbose,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	states, err := c.initialVectors()
	if err != nil {
		return nil, err
	}
	if states != nil {
		if err := sys.SetAllInitialStates(states); err != nil {
			return nil, err
		}
	}
	return sys, nil
}
