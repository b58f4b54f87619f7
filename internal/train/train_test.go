package train_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/optim"
	"github.com/born-ml/bpnet/internal/train"
)

var (
	xorInputs  = [][]nn.Signal{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	xorTargets = [][]nn.Signal{{0}, {1}, {1}, {0}}
)

func newTrainer(t *testing.T, cfg train.Config, opts ...train.Option) *train.Trainer[nn.Sigmoid] {
	t.Helper()
	tr, err := train.New[nn.Sigmoid](cfg, opts...)
	require.NoError(t, err)
	return tr
}

func rampNetwork(t *testing.T, topology ...int) *nn.SigmoidNetwork {
	t.Helper()
	net, err := nn.NewSigmoid(topology, nn.DefaultRamp())
	require.NoError(t, err)
	return net
}

func TestTrainXOR(t *testing.T) {
	net := rampNetwork(t, 2, 3, 3, 1)
	tr := newTrainer(t, train.DefaultConfig())

	result, err := tr.Train(context.Background(), net, xorInputs, xorTargets)
	require.NoError(t, err)
	require.True(t, result.Converged, "XOR did not converge: %s", result)
	assert.Equal(t, train.Success, result.State())
	assert.LessOrEqual(t, result.Error, 0.001)
	assert.Less(t, result.Epochs, 100_000)

	for i, in := range xorInputs {
		out := net.Activate(in)
		assert.Equal(t, xorTargets[i][0], math.Round(out[0]), "input %v gave %v", in, out)
	}
	assert.Equal(t, 4, train.CountCorrect(net, xorInputs, xorTargets))
}

func TestTrainEpochIsSumOfSampleErrors(t *testing.T) {
	cfg := train.DefaultConfig()
	tr := newTrainer(t, cfg)

	net := rampNetwork(t, 2, 3, 3, 1)
	manual := net.Clone()

	got := tr.TrainEpoch(net, xorInputs, xorTargets)

	vel := optim.VelocityFor(manual)
	var want nn.Signal
	for i := range xorInputs {
		sample := tr.TrainSample(manual, xorInputs[i], xorTargets[i], vel)
		// Outputs and targets lie in [0, 1], so each MSE does too.
		assert.GreaterOrEqual(t, sample, 0.0)
		assert.LessOrEqual(t, sample, 1.0)
		want += sample
	}

	assert.Equal(t, want, got)
	assert.Equal(t, manual, net)
}

func TestTrainEpochResetsMomentum(t *testing.T) {
	withMomentum := newTrainer(t, train.Config{LearningRate: 0.3, Momentum: 0.5, MaxEpochs: 1})
	without := newTrainer(t, train.Config{LearningRate: 0.3, MaxEpochs: 1})

	net := rampNetwork(t, 2, 3, 3, 1)
	withMomentum.TrainEpoch(net, xorInputs, xorTargets)

	// A single-sample epoch starts from zero velocity, so momentum has no
	// effect on it.
	a, b := net.Clone(), net.Clone()
	input, target := [][]nn.Signal{{1, 0}}, [][]nn.Signal{{1}}
	withMomentum.TrainEpoch(a, input, target)
	without.TrainEpoch(b, input, target)
	assert.Equal(t, b, a)

	// Two epochs match a manual run that starts each epoch with fresh
	// velocity, and differ from one that carries velocity across epochs.
	start := rampNetwork(t, 2, 3, 3, 1)
	trained, fresh, carried := start.Clone(), start.Clone(), start.Clone()
	withMomentum.TrainEpoch(trained, xorInputs, xorTargets)
	withMomentum.TrainEpoch(trained, xorInputs, xorTargets)

	stale := optim.VelocityFor(carried)
	for range 2 {
		vel := optim.VelocityFor(fresh)
		for i := range xorInputs {
			withMomentum.TrainSample(fresh, xorInputs[i], xorTargets[i], vel)
			withMomentum.TrainSample(carried, xorInputs[i], xorTargets[i], stale)
		}
	}
	assert.Equal(t, fresh, trained)
	assert.NotEqual(t, carried, trained)
}

// TestTrainSampleUsesPreUpdateWeights checks every parameter change against
// gradients computed on an untouched copy of the network.
func TestTrainSampleUsesPreUpdateWeights(t *testing.T) {
	net := &nn.SigmoidNetwork{Layers: []nn.Layer[nn.Sigmoid]{
		{Neurons: []nn.Neuron[nn.Sigmoid]{
			{Threshold: 0.1, Weights: []nn.Signal{0.4, -0.6}},
			{Threshold: -0.2, Weights: []nn.Signal{0.3, 0.8}},
		}},
		{Neurons: []nn.Neuron[nn.Sigmoid]{
			{Threshold: 0.05, Weights: []nn.Signal{-0.5, 0.9}},
			{Threshold: 0.3, Weights: []nn.Signal{0.7, -0.1}},
		}},
		{Neurons: []nn.Neuron[nn.Sigmoid]{
			{Threshold: -0.4, Weights: []nn.Signal{1.2, -0.8}},
		}},
	}}
	before := net.Clone()
	input, target := []nn.Signal{1, 0.5}, []nn.Signal{0}
	const rate = 0.7

	acts := before.AllLayerActivations(input)
	grads := before.LocalGradients(acts, target)

	tr := newTrainer(t, train.Config{LearningRate: rate, MaxEpochs: 1})
	loss := tr.TrainSample(net, input, target, optim.VelocityFor(net))
	assert.Equal(t, nn.MSE(acts[3], target), loss)

	for i := range net.Layers {
		for j := range net.Layers[i].Neurons {
			got := net.Layers[i].Neurons[j]
			old := before.Layers[i].Neurons[j]
			assert.InDelta(t, old.Threshold+rate*grads[i][j], got.Threshold, 1e-15, "layer %d neuron %d", i, j)
			for w := range got.Weights {
				assert.InDelta(t, old.Weights[w]+rate*grads[i][j]*acts[i][w], got.Weights[w], 1e-15,
					"layer %d neuron %d weight %d", i, j, w)
			}
		}
	}
}

func TestTrainMonotoneWithoutMomentum(t *testing.T) {
	net := rampNetwork(t, 2, 3, 1)
	tr := newTrainer(t, train.Config{LearningRate: 0.05, MaxEpochs: 1})
	input, target := [][]nn.Signal{{1, 0}}, [][]nn.Signal{{1}}

	prev := math.Inf(1)
	for epoch := range 300 {
		loss := tr.TrainEpoch(net, input, target)
		require.LessOrEqual(t, loss, prev, "error rose at epoch %d", epoch)
		prev = loss
	}
}

func TestTrainFailureCarriesBudget(t *testing.T) {
	net := rampNetwork(t, 2, 3, 3, 1)
	tr := newTrainer(t, train.Config{LearningRate: 0.3, Momentum: 0.1, TargetError: 0, MaxEpochs: 5})

	result, err := tr.Train(context.Background(), net, xorInputs, xorTargets)
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Equal(t, train.Failure, result.State())
	assert.Equal(t, 5, result.Epochs)
	assert.Positive(t, result.Error)
}

func TestTrainSuccessReportsZeroBasedEpoch(t *testing.T) {
	net := rampNetwork(t, 2, 3, 3, 1)
	tr := newTrainer(t, train.Config{LearningRate: 0.3, TargetError: 10, MaxEpochs: 5})

	result, err := tr.Train(context.Background(), net, xorInputs, xorTargets)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Equal(t, 0, result.Epochs)
}

func TestTrainEpochHook(t *testing.T) {
	var seen []train.EpochStats
	tr := newTrainer(t, train.Config{LearningRate: 0.3, MaxEpochs: 4},
		train.WithEpochHook(func(s train.EpochStats) { seen = append(seen, s) }))

	result, err := tr.Train(context.Background(), rampNetwork(t, 2, 2, 1), xorInputs, xorTargets)
	require.NoError(t, err)
	require.Len(t, seen, 4)
	for i, s := range seen {
		assert.Equal(t, i, s.Epoch)
	}
	assert.Equal(t, seen[3].Error, result.Error)
}

func TestTrainCancellation(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tr := newTrainer(t, train.DefaultConfig())
		result, err := tr.Train(ctx, rampNetwork(t, 2, 3, 1), xorInputs, xorTargets)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 0, result.Epochs)
		assert.False(t, result.Converged)
	})

	t.Run("between epochs", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tr := newTrainer(t, train.DefaultConfig(), train.WithEpochHook(func(s train.EpochStats) {
			if s.Epoch == 2 {
				cancel()
			}
		}))
		result, err := tr.Train(ctx, rampNetwork(t, 2, 3, 1), xorInputs, xorTargets)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 3, result.Epochs)
	})
}

func TestTrainDivergence(t *testing.T) {
	input, target := [][]nn.Signal{{math.NaN(), 0}}, [][]nn.Signal{{1}}

	t.Run("stop", func(t *testing.T) {
		tr := newTrainer(t, train.Config{LearningRate: 0.1, MaxEpochs: 10, StopOnDivergence: true})
		result, err := tr.Train(context.Background(), rampNetwork(t, 2, 2, 1), input, target)
		require.NoError(t, err)
		assert.True(t, result.Diverged)
		assert.Equal(t, train.Failure, result.State())
		assert.Equal(t, 0, result.Epochs)
	})

	t.Run("run to budget", func(t *testing.T) {
		tr := newTrainer(t, train.Config{LearningRate: 0.1, MaxEpochs: 10})
		result, err := tr.Train(context.Background(), rampNetwork(t, 2, 2, 1), input, target)
		require.NoError(t, err)
		assert.False(t, result.Diverged)
		assert.Equal(t, 10, result.Epochs)
		assert.True(t, math.IsNaN(result.Error))
	})
}

func TestTrainLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tr := newTrainer(t, train.Config{LearningRate: 0.3, TargetError: 10, MaxEpochs: 3, LogEvery: 1},
		train.WithLogger(logger))

	_, err := tr.Train(context.Background(), rampNetwork(t, 2, 2, 1), xorInputs, xorTargets)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "training started")
	assert.Contains(t, buf.String(), "epoch finished")
	assert.Contains(t, buf.String(), "training converged")
}

func TestTrainEpochPanicsOnLengthMismatch(t *testing.T) {
	tr := newTrainer(t, train.DefaultConfig())
	assert.PanicsWithValue(t, "TrainEpoch: got 4 inputs and 3 targets", func() {
		tr.TrainEpoch(rampNetwork(t, 2, 1), xorInputs, xorTargets[:3])
	})
	assert.Panics(t, func() {
		tr.TrainEpoch(rampNetwork(t, 3, 1), xorInputs, xorTargets)
	})
}

func TestPackageFunctions(t *testing.T) {
	a := rampNetwork(t, 2, 3, 1)
	b := a.Clone()

	got := train.Train(a, xorInputs, xorTargets, 0.001, 0.3, 0.1, 50)
	want, err := newTrainer(t, train.Config{LearningRate: 0.3, Momentum: 0.1, TargetError: 0.001, MaxEpochs: 50}).
		Train(context.Background(), b, xorInputs, xorTargets)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, b, a)

	c, d := a.Clone(), a.Clone()
	assert.Equal(t,
		train.TrainEpoch(c, xorInputs, xorTargets, 0.3, 0.1),
		newTrainer(t, train.Config{LearningRate: 0.3, Momentum: 0.1, MaxEpochs: 1}).TrainEpoch(d, xorInputs, xorTargets))
	assert.Equal(t, d, c)

	assert.Panics(t, func() {
		train.TrainSample(a, xorInputs[0], xorTargets[0], 0, 0, optim.VelocityFor(a))
	})
}

func TestPackageTrainSample(t *testing.T) {
	a := rampNetwork(t, 2, 3, 3, 1)
	b := a.Clone()
	trainer := newTrainer(t, train.Config{LearningRate: 0.3, Momentum: 0.1, MaxEpochs: 1})

	velA, velB := optim.VelocityFor(a), optim.VelocityFor(b)
	for epoch := 0; epoch < 3; epoch++ {
		for i := range xorInputs {
			got := train.TrainSample(a, xorInputs[i], xorTargets[i], 0.3, 0.1, velA)
			want := trainer.TrainSample(b, xorInputs[i], xorTargets[i], velB)
			require.Equal(t, want, got, "epoch %d sample %d", epoch, i)
		}
	}
	assert.Equal(t, b, a)
	assert.Equal(t, velB, velA)

	before := a.Clone()
	tests := []struct {
		name           string
		rate, momentum nn.Signal
	}{
		{"zero rate", 0, 0.1},
		{"nan rate", math.NaN(), 0.1},
		{"momentum one", 0.3, 1},
		{"negative momentum", 0.3, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() {
				train.TrainSample(a, xorInputs[0], xorTargets[0], tt.rate, tt.momentum, optim.VelocityFor(a))
			})
			assert.Panics(t, func() {
				train.TrainEpoch(a, xorInputs, xorTargets, tt.rate, tt.momentum)
			})
		})
	}
	assert.Equal(t, before, a, "rejected hyperparameters must not touch the network")

	assert.NotPanics(t, func() {
		train.TrainSample(a, xorInputs[0], xorTargets[0], 0.3, 0, optim.VelocityFor(a))
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*train.Config)
		valid  bool
	}{
		{"default", func(*train.Config) {}, true},
		{"zero momentum", func(c *train.Config) { c.Momentum = 0 }, true},
		{"zero target", func(c *train.Config) { c.TargetError = 0 }, true},
		{"zero rate", func(c *train.Config) { c.LearningRate = 0 }, false},
		{"negative rate", func(c *train.Config) { c.LearningRate = -0.1 }, false},
		{"nan rate", func(c *train.Config) { c.LearningRate = math.NaN() }, false},
		{"momentum one", func(c *train.Config) { c.Momentum = 1 }, false},
		{"negative momentum", func(c *train.Config) { c.Momentum = -0.1 }, false},
		{"negative target", func(c *train.Config) { c.TargetError = -1 }, false},
		{"zero epochs", func(c *train.Config) { c.MaxEpochs = 0 }, false},
		{"negative log interval", func(c *train.Config) { c.LogEvery = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := train.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, train.ErrInvalidConfig), "got %v", err)

			_, err = train.New[nn.Sigmoid](cfg)
			assert.Error(t, err)
		})
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success(error=0.001, epochs=12)", train.Result{Converged: true, Error: 0.001, Epochs: 12}.String())
	assert.Equal(t, "failure(error=0.5, epochs=100)", train.Result{Error: 0.5, Epochs: 100}.String())
	assert.Equal(t, "success", train.Success.String())
	assert.Equal(t, "State(7)", train.State(7).String())
}
