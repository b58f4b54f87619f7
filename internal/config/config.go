// Package config loads training run configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/bpnet/internal/dataset"
	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/train"
)

// Config captures the knobs of a training run.
type Config struct {
	Topology         []int   `yaml:"topology"`
	LearningRate     float64 `yaml:"learning_rate"`
	Momentum         float64 `yaml:"momentum"`
	TargetError      float64 `yaml:"target_error"`
	MaxEpochs        int     `yaml:"max_epochs"`
	StopOnDivergence bool    `yaml:"stop_on_divergence"`
	Init             string  `yaml:"init"`
	Seed             int64   `yaml:"seed"`
	Restarts         int     `yaml:"restarts"`
	Workers          int     `yaml:"workers"`
	LogEvery         int     `yaml:"log_every"`

	// Dataset names a builtin sample set. DataFile, when set, is a CSV file
	// loaded instead.
	Dataset  string `yaml:"dataset"`
	DataFile string `yaml:"data_file"`

	Output string `yaml:"output"`
}

// Overrides captures CLI supplied values. Zero values mean "not set",
// except for the pointer fields, where zero is a valid setting and nil means
// "not set".
type Overrides struct {
	LearningRate float64
	Momentum     *float64
	TargetError  *float64
	MaxEpochs    int
	Init         string
	Seed         *int64
	Restarts     int
	LogEvery     int
	Dataset      string
	DataFile     string
	Output       string
}

// Default returns the configuration that trains [2,3,3,1] on XOR.
func Default() *Config {
	return &Config{
		Topology:     []int{2, 3, 3, 1},
		LearningRate: 0.3,
		Momentum:     0.1,
		TargetError:  0.001,
		MaxEpochs:    100_000,
		Init:         nn.InitRamp,
		Restarts:     1,
		Dataset:      "xor",
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: Config path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
// The result is not validated.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any set override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Momentum != nil {
		c.Momentum = *o.Momentum
	}
	if o.TargetError != nil {
		c.TargetError = *o.TargetError
	}
	if o.MaxEpochs > 0 {
		c.MaxEpochs = o.MaxEpochs
	}
	if o.Init != "" {
		c.Init = o.Init
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Restarts > 0 {
		c.Restarts = o.Restarts
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.Dataset != "" {
		c.Dataset = o.Dataset
		c.DataFile = ""
	}
	if o.DataFile != "" {
		c.DataFile = o.DataFile
	}
	if o.Output != "" {
		c.Output = o.Output
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := nn.ValidateTopology(c.Topology); err != nil {
		return err
	}
	if err := c.Train().Validate(); err != nil {
		return err
	}
	if _, err := nn.InitializerByName(c.Init, c.Seed); err != nil {
		return err
	}
	if c.Restarts <= 0 {
		return fmt.Errorf("restarts must be > 0 (got %d)", c.Restarts)
	}
	if c.DataFile == "" {
		if _, err := dataset.Builtin(c.Dataset); err != nil {
			return err
		}
	}
	return nil
}

// Train returns the trainer hyperparameters.
func (c *Config) Train() train.Config {
	return train.Config{
		LearningRate:     c.LearningRate,
		Momentum:         c.Momentum,
		TargetError:      c.TargetError,
		MaxEpochs:        c.MaxEpochs,
		LogEvery:         c.LogEvery,
		StopOnDivergence: c.StopOnDivergence,
	}
}

// Samples loads the configured sample set and checks it against the topology.
func (c *Config) Samples() (*dataset.Samples, error) {
	var (
		s   *dataset.Samples
		err error
	)
	if c.DataFile != "" {
		s, err = dataset.LoadCSV(c.DataFile, c.Topology[0])
	} else {
		s, err = dataset.Builtin(c.Dataset)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Validate(c.Topology[0], c.Topology[len(c.Topology)-1]); err != nil {
		return nil, err
	}
	return s, nil
}

// Initializer returns the initializer for seed.
func (c *Config) Initializer(seed int64) (nn.Initializer, error) {
	return nn.InitializerByName(c.Init, seed)
}

// Seeds returns one seed per restart, starting at Seed.
func (c *Config) Seeds() []int64 {
	seeds := make([]int64, c.Restarts)
	for i := range seeds {
		seeds[i] = c.Seed + int64(i)
	}
	return seeds
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
