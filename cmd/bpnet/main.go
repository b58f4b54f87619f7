// Package main provides the bpnet CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/born-ml/bpnet/internal/config"
	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/serialization"
	"github.com/born-ml/bpnet/internal/train"
)

const version = "v0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "bpnet: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "bpnet %s (format v%d)\n", version, serialization.FormatVersion)
		return nil
	case "train":
		return runTrain(ctx, args[1:], stdout, stderr)
	case "infer":
		return runInfer(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "bpnet - feed-forward backpropagation networks")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  train      Train a network from a YAML config")
	fmt.Fprintln(w, "  infer      Run a saved network on one input")
}

// trainFlags holds the parsed flags of the train command.
type trainFlags struct {
	configPath string
	verbose    bool
	overrides  config.Overrides
}

func parseTrainFlags(args []string, stderr io.Writer) (trainFlags, error) {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		tf               trainFlags
		o                = &tf.overrides
		momentum, target float64
		seed             int64
	)
	fs.StringVar(&tf.configPath, "config", "", "YAML config file (defaults are used when empty)")
	fs.BoolVar(&tf.verbose, "v", false, "log debug output")
	fs.Float64Var(&o.LearningRate, "rate", 0, "learning rate override")
	fs.Float64Var(&momentum, "momentum", 0, "momentum override")
	fs.Float64Var(&target, "target", 0, "target epoch error override")
	fs.IntVar(&o.MaxEpochs, "epochs", 0, "epoch budget override")
	fs.StringVar(&o.Init, "init", "", "initializer override (ramp, uniform, xavier)")
	fs.Int64Var(&seed, "seed", 0, "seed override")
	fs.IntVar(&o.Restarts, "restarts", 0, "number of independent runs")
	fs.IntVar(&o.LogEvery, "log-every", 0, "log progress every N epochs")
	fs.StringVar(&o.Dataset, "dataset", "", "builtin dataset (and, or, xor)")
	fs.StringVar(&o.DataFile, "data", "", "CSV sample file")
	fs.StringVar(&o.Output, "out", "", "write the trained network to this .bpn file")
	if err := fs.Parse(args); err != nil {
		return trainFlags{}, err
	}

	// Zero is a valid momentum, target and seed, so only flags given on the
	// command line override the config.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "momentum":
			o.Momentum = &momentum
		case "target":
			o.TargetError = &target
		case "seed":
			o.Seed = &seed
		}
	})
	return tf, nil
}

func runTrain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	tf, err := parseTrainFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if tf.configPath != "" {
		loaded, err := config.Load(tf.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(tf.overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	samples, err := cfg.Samples()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if tf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	trainer, err := train.New[nn.Sigmoid](cfg.Train(), train.WithLogger(logger))
	if err != nil {
		return err
	}

	best, _, err := trainer.TrainRestarts(ctx, train.RestartConfig{
		Topology: cfg.Topology,
		Seeds:    cfg.Seeds(),
		Init:     cfg.Initializer,
		Workers:  cfg.Workers,
	}, samples.Inputs, samples.Targets)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "seed %d: %s\n", best.Seed, best.Result)
	outputs := train.Evaluate(best.Network, samples.Inputs)
	for i, out := range outputs {
		fmt.Fprintf(stdout, "  %v -> %s (target %v)\n", samples.Inputs[i], formatSignals(out), samples.Targets[i])
	}
	fmt.Fprintf(stdout, "correct: %d/%d\n",
		train.CountCorrect(best.Network, samples.Inputs, samples.Targets), samples.Len())

	if cfg.Output == "" {
		return nil
	}

	ckpt := nn.NewCheckpoint(best.Network, best.Result.Epochs, best.Result.Error)
	ckpt.Converged = best.Result.Converged
	ckpt.Metadata["learning_rate"] = cfg.LearningRate
	ckpt.Metadata["momentum"] = cfg.Momentum
	ckpt.Metadata["target_error"] = cfg.TargetError
	ckpt.Metadata["init"] = cfg.Init
	ckpt.Metadata["seed"] = best.Seed
	if err := ckpt.Save(cfg.Output); err != nil {
		return err
	}
	logger.Info("network saved", "path", cfg.Output, "run_id", ckpt.RunID)
	return nil
}

func runInfer(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("infer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelPath := fs.String("model", "", "trained .bpn file")
	input := fs.String("input", "", "comma separated input vector, e.g. 0,1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *modelPath == "" || *input == "" {
		fs.Usage()
		return errors.New("infer needs -model and -input")
	}

	net, err := nn.Load[nn.Sigmoid](*modelPath)
	if err != nil {
		return err
	}

	values, err := parseSignals(*input)
	if err != nil {
		return err
	}
	if len(values) != net.InputWidth() {
		return fmt.Errorf("network takes %d inputs, got %d", net.InputWidth(), len(values))
	}

	fmt.Fprintln(stdout, formatSignals(net.Activate(values)))
	return nil
}

func parseSignals(s string) ([]nn.Signal, error) {
	fields := strings.Split(s, ",")
	values := make([]nn.Signal, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", f, err)
		}
		values[i] = v
	}
	return values, nil
}

func formatSignals(values []nn.Signal) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
