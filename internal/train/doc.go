// Package train runs online backpropagation with momentum over a sample set.
//
// One epoch presents every sample once, in order. Each sample is propagated
// forward, its local gradients are computed from the current weights, and
// only then is every parameter updated. The epoch error is the sum of the
// per-sample mean squared errors, each measured before that sample's update.
// Momentum state starts at zero in every epoch.
//
// Example:
//
//	trainer, err := train.New[nn.Sigmoid](train.DefaultConfig(),
//	    train.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	result, err := trainer.Train(ctx, net, xor.Inputs, xor.Targets)
package train
