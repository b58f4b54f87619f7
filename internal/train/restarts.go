package train

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/parallel"
)

// ErrNoRuns is returned by TrainRestarts when no seeds are given.
var ErrNoRuns = errors.New("no training runs requested")

// RestartConfig describes a set of independent training runs.
type RestartConfig struct {
	Topology []int
	Seeds    []int64 // One run per seed

	// Init returns the initializer for a seed. Nil means the default ramp,
	// which makes every run identical.
	Init func(seed int64) (nn.Initializer, error)

	// Workers bounds the number of concurrent runs. Zero or less means one
	// per CPU.
	Workers int
}

// Run is the outcome of one training run.
type Run[A nn.Activation] struct {
	Seed    int64
	Network *nn.Network[A]
	Result  Result
	Err     error
}

// TrainRestarts trains one freshly initialized network per seed and returns
// the best run together with all runs in seed order.
//
// Runs share only the read-only sample set, so they execute concurrently.
// The best run is the converged one with the lowest error, or the lowest
// error overall if none converged; ties go to the earlier seed. An error is
// returned when no run completed without error.
func (t *Trainer[A]) TrainRestarts(ctx context.Context, rc RestartConfig, inputs, targets [][]nn.Signal) (Run[A], []Run[A], error) {
	if len(rc.Seeds) == 0 {
		return Run[A]{}, nil, ErrNoRuns
	}
	if err := nn.ValidateTopology(rc.Topology); err != nil {
		return Run[A]{}, nil, err
	}

	runs := make([]Run[A], len(rc.Seeds))
	parallel.For(len(rc.Seeds), func(i int) {
		runs[i] = t.restart(ctx, rc, rc.Seeds[i], inputs, targets)
	}, parallel.TaskConfig(rc.Workers))

	best := -1
	for i := range runs {
		if runs[i].Err != nil {
			continue
		}
		if best < 0 || betterRun(runs[i].Result, runs[best].Result) {
			best = i
		}
	}
	if best < 0 {
		return Run[A]{}, runs, fmt.Errorf("all %d runs failed: %w", len(runs), runs[0].Err)
	}

	t.logger.Info("restarts finished", "runs", len(runs), "best_seed", runs[best].Seed, "best", runs[best].Result.String())
	return runs[best], runs, nil
}

func (t *Trainer[A]) restart(ctx context.Context, rc RestartConfig, seed int64, inputs, targets [][]nn.Signal) Run[A] {
	run := Run[A]{Seed: seed}

	var initializer nn.Initializer = nn.DefaultRamp()
	if rc.Init != nil {
		var err error
		if initializer, err = rc.Init(seed); err != nil {
			run.Err = err
			return run
		}
	}

	net, err := nn.New[A](rc.Topology, initializer)
	if err != nil {
		run.Err = err
		return run
	}
	run.Network = net
	run.Result, run.Err = t.Train(ctx, net, inputs, targets)
	return run
}

// betterRun reports whether a beats b. Non-finite errors rank last.
func betterRun(a, b Result) bool {
	if a.Converged != b.Converged {
		return a.Converged
	}
	return cmp.Compare(rank(a.Error), rank(b.Error)) < 0
}

func rank(err nn.Signal) nn.Signal {
	if math.IsNaN(err) {
		return math.Inf(1)
	}
	return err
}
