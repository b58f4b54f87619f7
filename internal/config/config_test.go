package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/bpnet/internal/dataset"
	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/train"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, train.DefaultConfig(), cfg.Train())
}

func TestParse(t *testing.T) {
	data := `
topology: [2, 4, 1]
learning_rate: 0.5
momentum: 0.2
target_error: 0.01
max_epochs: 5000
init: uniform
seed: 42
restarts: 3
dataset: and
log_every: 100
output: and.bpn
`
	cfg, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []int{2, 4, 1}, cfg.Topology)
	assert.Equal(t, 0.5, cfg.LearningRate)
	assert.Equal(t, 0.2, cfg.Momentum)
	assert.Equal(t, 0.01, cfg.TargetError)
	assert.Equal(t, 5000, cfg.MaxEpochs)
	assert.Equal(t, nn.InitUniform, cfg.Init)
	assert.Equal(t, []int64{42, 43, 44}, cfg.Seeds())
	assert.Equal(t, "and", cfg.Dataset)
	assert.Equal(t, 100, cfg.LogEvery)
	assert.Equal(t, "and.bpn", cfg.Output)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("max_epochs: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxEpochs)
	assert.Equal(t, []int{2, 3, 3, 1}, cfg.Topology)
	assert.Equal(t, 0.3, cfg.LearningRate)

	cfg, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("learning_rat: 0.3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"short topology", func(c *Config) { c.Topology = []int{2} }, nn.ErrInvalidTopology},
		{"zero width", func(c *Config) { c.Topology = []int{2, 0, 1} }, nn.ErrInvalidTopology},
		{"zero rate", func(c *Config) { c.LearningRate = 0 }, train.ErrInvalidConfig},
		{"momentum one", func(c *Config) { c.Momentum = 1 }, train.ErrInvalidConfig},
		{"zero epochs", func(c *Config) { c.MaxEpochs = 0 }, train.ErrInvalidConfig},
		{"unknown init", func(c *Config) { c.Init = "he" }, nn.ErrUnknownInitializer},
		{"unknown dataset", func(c *Config) { c.Dataset = "nand" }, dataset.ErrUnknownDataset},
		{"zero restarts", func(c *Config) { c.Restarts = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.DataFile = "data.csv"
	cfg.ApplyOverrides(Overrides{
		LearningRate: 0.7,
		MaxEpochs:    10,
		Dataset:      "or",
		Output:       "out.bpn",
	})

	assert.Equal(t, 0.7, cfg.LearningRate)
	assert.Equal(t, 0.1, cfg.Momentum, "zero override keeps the value")
	assert.Equal(t, 10, cfg.MaxEpochs)
	assert.Equal(t, "or", cfg.Dataset)
	assert.Empty(t, cfg.DataFile, "a dataset override replaces the data file")
	assert.Equal(t, "out.bpn", cfg.Output)
}

func TestApplyOverridesZeroValues(t *testing.T) {
	cfg, err := Parse(strings.NewReader("momentum: 0.5\ntarget_error: 0.01\nseed: 9\n"))
	require.NoError(t, err)

	zero, zeroSeed := 0.0, int64(0)
	cfg.ApplyOverrides(Overrides{Momentum: &zero, TargetError: &zero, Seed: &zeroSeed})

	assert.Zero(t, cfg.Momentum)
	assert.Zero(t, cfg.TargetError)
	assert.Zero(t, cfg.Seed)
	require.NoError(t, cfg.Validate())

	cfg.ApplyOverrides(Overrides{})
	assert.Zero(t, cfg.Momentum, "unset overrides keep the value")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "or.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("0,0,0\n0,1,1\n1,0,1\n1,1,1\n"), 0o600))

	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("topology: [2, 2, 1]\ndata_file: "+dataPath+"\n"), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	s, err := cfg.Samples()
	require.NoError(t, err)
	assert.Equal(t, dataset.OR(), s)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSamplesWidthMismatch(t *testing.T) {
	cfg := Default()
	cfg.Topology = []int{3, 2, 1}
	_, err := cfg.Samples()
	assert.True(t, errors.Is(err, dataset.ErrInvalidSamples))
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 9
	cfg.Output = "x.bpn"

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestInitializer(t *testing.T) {
	cfg := Default()
	init, err := cfg.Initializer(1)
	require.NoError(t, err)
	assert.IsType(t, &nn.Ramp{}, init)
}
