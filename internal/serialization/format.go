package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Format constants.
const (
	MagicBytes       = "BPNT"
	FormatVersion    = 1
	HeaderAlignment  = 64   // Tensor data starts on a 64-byte boundary
	FixedHeaderSize  = 64   // Fixed header size (0x40 bytes)
	ChecksumSize     = 32   // SHA-256 checksum size
	ChecksumOffset   = 0x20 // Checksum offset in the fixed header
	DTypeFloat64     = "float64"
	float64ByteWidth = 8
)

// Flags for the .bpn format.
const (
	FlagHasMetadata   uint32 = 1 << 0 // custom metadata included
	FlagHasCheckpoint uint32 = 1 << 1 // training checkpoint metadata included
)

// Tensor is a named block of float64 values with a row-major shape.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NumElements returns the product of the shape.
func (t Tensor) NumElements() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Validate checks that the shape is non-negative and matches the data length.
func (t Tensor) Validate() error {
	for i, d := range t.Shape {
		if d < 0 {
			return fmt.Errorf("dimension %d is negative: %d", i, d)
		}
	}
	if n := t.NumElements(); n != len(t.Data) {
		return fmt.Errorf("shape %v holds %d elements, data has %d", t.Shape, n, len(t.Data))
	}
	return nil
}

// Header represents the JSON header in a .bpn file.
type Header struct {
	FormatVersion  int               `json:"format_version"`       // Version of the .bpn format
	LibraryVersion string            `json:"library_version"`      // Version of bpnet that wrote the file
	ModelType      string            `json:"model_type"`           // Type of model (e.g., "SigmoidNetwork")
	Topology       []int             `json:"topology"`             // Layer widths including the input width
	CreatedAt      time.Time         `json:"created_at"`           // When the file was created
	Tensors        []TensorMeta      `json:"tensors"`              // Tensor metadata
	Metadata       map[string]string `json:"metadata"`             // Custom metadata
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"` // Checkpoint metadata (optional)
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	RunID        string         `json:"run_id"`        // Identifier of the training run
	Epoch        int            `json:"epoch"`         // Epochs consumed when the checkpoint was taken
	Loss         float64        `json:"loss"`          // Epoch error at checkpoint
	Converged    bool           `json:"converged"`     // Whether the target error was met
	TrainingMeta map[string]any `json:"training_meta"` // Hyperparameters and other training metadata
}

// checkpointMetaJSON has the fields of CheckpointMeta without its methods.
type checkpointMetaJSON CheckpointMeta

// MarshalJSON implements json.Marshaler.
//
// A finite Loss is written as a JSON number. NaN and ±Inf, which JSON
// numbers cannot hold, are written as the strings "NaN", "+Inf" and "-Inf".
func (m CheckpointMeta) MarshalJSON() ([]byte, error) {
	aux := struct {
		checkpointMetaJSON
		Loss any `json:"loss"`
	}{checkpointMetaJSON: checkpointMetaJSON(m), Loss: m.Loss}
	if math.IsNaN(m.Loss) || math.IsInf(m.Loss, 0) {
		aux.Loss = strconv.FormatFloat(m.Loss, 'g', -1, 64)
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts Loss as a number or
// as one of the strings written by MarshalJSON.
func (m *CheckpointMeta) UnmarshalJSON(data []byte) error {
	aux := struct {
		*checkpointMetaJSON
		Loss json.RawMessage `json:"loss"`
	}{checkpointMetaJSON: (*checkpointMetaJSON)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Loss)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		m.Loss = 0
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !(math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("invalid checkpoint loss %q", s)
		}
		m.Loss = v
	default:
		if err := json.Unmarshal(raw, &m.Loss); err != nil {
			return err
		}
	}
	return nil
}

// TensorMeta describes a tensor in the .bpn file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.0.weight")
	DType  string `json:"dtype"`  // Data type, always "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// alignedPosition returns pos rounded up to HeaderAlignment.
func alignedPosition(pos int64) int64 {
	return pos + (HeaderAlignment-(pos%HeaderAlignment))%HeaderAlignment
}
