package nn

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/bpnet/internal/serialization"
)

// ErrNotCheckpoint is returned by LoadCheckpoint for plain model files.
var ErrNotCheckpoint = errors.New("file is not a checkpoint")

// modelType returns the header model type for networks using activation A.
func modelType[A Activation]() string {
	var act A
	return fmt.Sprintf("Network[%T]", act)
}

// Checkpoint is a trained network together with the state of the run that
// produced it.
//
// Momentum state is not part of a checkpoint: it only lives for one epoch.
//
// Example:
//
//	ckpt := nn.NewCheckpoint(net, result.Epochs, result.Error)
//	ckpt.Metadata["learning_rate"] = 0.3
//	err := ckpt.Save("xor.bpn")
//
// To resume:
//
//	ckpt, err := nn.LoadCheckpoint[nn.Sigmoid]("xor.bpn")
//	net := ckpt.Network
type Checkpoint[A Activation] struct {
	Network   *Network[A]    // The trained network
	RunID     string         // Identifier of the training run
	Epoch     int            // Epochs consumed
	Loss      float64        // Epoch error at this point
	Converged bool           // Whether the target error was met
	Metadata  map[string]any // Hyperparameters and other training metadata
	CreatedAt time.Time      // When the checkpoint was created
}

// NewCheckpoint creates a checkpoint with a fresh run ID.
func NewCheckpoint[A Activation](net *Network[A], epoch int, loss float64) *Checkpoint[A] {
	return &Checkpoint[A]{
		Network:  net,
		RunID:    uuid.NewString(),
		Epoch:    epoch,
		Loss:     loss,
		Metadata: make(map[string]any),
	}
}

// Save writes the checkpoint to a .bpn file.
func (c *Checkpoint[A]) Save(path string) error {
	if c.Network == nil {
		return fmt.Errorf("checkpoint has no network")
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	header := serialization.Header{
		ModelType: modelType[A](),
		Topology:  c.Network.Topology(),
		CreatedAt: c.CreatedAt,
		CheckpointMeta: &serialization.CheckpointMeta{
			RunID:        c.RunID,
			Epoch:        c.Epoch,
			Loss:         c.Loss,
			Converged:    c.Converged,
			TrainingMeta: c.Metadata,
		},
	}
	return writeFile(path, c.Network.StateDict(), header)
}

// LoadCheckpoint reads a checkpoint written by Checkpoint.Save.
func LoadCheckpoint[A Activation](path string) (*Checkpoint[A], error) {
	net, header, err := readFile[A](path)
	if err != nil {
		return nil, err
	}
	meta := header.CheckpointMeta
	if meta == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotCheckpoint)
	}
	if meta.TrainingMeta == nil {
		meta.TrainingMeta = make(map[string]any)
	}

	return &Checkpoint[A]{
		Network:   net,
		RunID:     meta.RunID,
		Epoch:     meta.Epoch,
		Loss:      meta.Loss,
		Converged: meta.Converged,
		Metadata:  meta.TrainingMeta,
		CreatedAt: header.CreatedAt,
	}, nil
}

// Save writes a plain network to a .bpn file.
func Save[A Activation](path string, net *Network[A], metadata map[string]string) error {
	header := serialization.Header{
		ModelType: modelType[A](),
		Topology:  net.Topology(),
		Metadata:  metadata,
	}
	return writeFile(path, net.StateDict(), header)
}

// Load reads a network written by Save or Checkpoint.Save.
func Load[A Activation](path string) (*Network[A], error) {
	net, _, err := readFile[A](path)
	return net, err
}

func writeFile(path string, dict map[string]serialization.Tensor, header serialization.Header) (err error) {
	w, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := w.WriteStateDict(dict, header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFile[A Activation](path string) (*Network[A], serialization.Header, error) {
	r, err := serialization.NewReader(path)
	if err != nil {
		return nil, serialization.Header{}, err
	}
	defer func() {
		_ = r.Close() // In-memory reader, close cannot fail
	}()

	header := r.Header()
	if want := modelType[A](); header.ModelType != want {
		return nil, header, fmt.Errorf("%w: model type %q, expected %q", ErrStateMismatch, header.ModelType, want)
	}

	dict, err := r.ReadStateDict()
	if err != nil {
		return nil, header, err
	}

	net, err := FromStateDict[A](header.Topology, dict)
	if err != nil {
		return nil, header, fmt.Errorf("%s: %w", path, err)
	}
	return net, header, nil
}
