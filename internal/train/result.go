package train

import (
	"fmt"

	"github.com/born-ml/bpnet/internal/nn"
)

// State is the trainer state machine: Training until an epoch boundary ends
// the run in Success or Failure.
type State int

const (
	Training State = iota
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Training:
		return "training"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of Train.
//
// On success Epochs is the 0-based index of the epoch that met the target.
// When the budget runs out Epochs equals MaxEpochs. A diverged run reports
// the 0-based index of the epoch whose error was not finite.
type Result struct {
	Converged bool      // Target error was met
	Diverged  bool      // Stopped on a non-finite epoch error
	Error     nn.Signal // Last epoch error
	Epochs    int
}

// State returns Success for a converged run and Failure otherwise.
func (r Result) State() State {
	if r.Converged {
		return Success
	}
	return Failure
}

func (r Result) String() string {
	switch {
	case r.Converged:
		return fmt.Sprintf("success(error=%g, epochs=%d)", r.Error, r.Epochs)
	case r.Diverged:
		return fmt.Sprintf("diverged(error=%g, epoch=%d)", r.Error, r.Epochs)
	default:
		return fmt.Sprintf("failure(error=%g, epochs=%d)", r.Error, r.Epochs)
	}
}
