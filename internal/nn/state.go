package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/bpnet/internal/serialization"
)

// ErrStateMismatch is returned when a state dictionary does not fit a network.
var ErrStateMismatch = errors.New("state dict does not match network")

// WeightKey returns the state dictionary key of layer i's weight matrix.
func WeightKey(i int) string {
	return fmt.Sprintf("layer.%d.weight", i)
}

// ThresholdKey returns the state dictionary key of layer i's thresholds.
func ThresholdKey(i int) string {
	return fmt.Sprintf("layer.%d.threshold", i)
}

// StateDict exports every parameter of the network.
//
// Layer i contributes "layer.{i}.weight" with shape [width, fanIn] in
// row-major order (row j holds neuron j's weights) and "layer.{i}.threshold"
// with shape [width]. The values are copies.
func (n *Network[A]) StateDict() map[string]serialization.Tensor {
	dict := make(map[string]serialization.Tensor, 2*len(n.Layers))
	for i := range n.Layers {
		layer := &n.Layers[i]
		width, fanIn := layer.Width(), layer.FanIn()

		weights := make([]Signal, 0, width*fanIn)
		thresholds := make([]Signal, 0, width)
		for j := range layer.Neurons {
			weights = append(weights, layer.Neurons[j].Weights...)
			thresholds = append(thresholds, layer.Neurons[j].Threshold)
		}

		dict[WeightKey(i)] = serialization.Tensor{Shape: []int{width, fanIn}, Data: weights}
		dict[ThresholdKey(i)] = serialization.Tensor{Shape: []int{width}, Data: thresholds}
	}
	return dict
}

// LoadStateDict copies parameters from dict into the network.
//
// dict must hold exactly the keys StateDict produces, with matching shapes.
// On error the network is left unchanged.
func (n *Network[A]) LoadStateDict(dict map[string]serialization.Tensor) error {
	if len(dict) != 2*len(n.Layers) {
		return fmt.Errorf("%w: got %d tensors, expected %d", ErrStateMismatch, len(dict), 2*len(n.Layers))
	}

	for i := range n.Layers {
		layer := &n.Layers[i]
		w, ok := dict[WeightKey(i)]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrStateMismatch, WeightKey(i))
		}
		th, ok := dict[ThresholdKey(i)]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrStateMismatch, ThresholdKey(i))
		}
		if !shapeEqual(w.Shape, layer.Width(), layer.FanIn()) || len(w.Data) != layer.Width()*layer.FanIn() {
			return fmt.Errorf("%w: %s has shape %v, expected [%d %d]",
				ErrStateMismatch, WeightKey(i), w.Shape, layer.Width(), layer.FanIn())
		}
		if !shapeEqual(th.Shape, layer.Width()) || len(th.Data) != layer.Width() {
			return fmt.Errorf("%w: %s has shape %v, expected [%d]",
				ErrStateMismatch, ThresholdKey(i), th.Shape, layer.Width())
		}
	}

	for i := range n.Layers {
		layer := &n.Layers[i]
		w := dict[WeightKey(i)].Data
		th := dict[ThresholdKey(i)].Data
		fanIn := layer.FanIn()
		for j := range layer.Neurons {
			copy(layer.Neurons[j].Weights, w[j*fanIn:(j+1)*fanIn])
			layer.Neurons[j].Threshold = th[j]
		}
	}
	return nil
}

// FromStateDict builds a network of the given topology and loads dict into it.
func FromStateDict[A Activation](topology []int, dict map[string]serialization.Tensor) (*Network[A], error) {
	net, err := New[A](topology, nil)
	if err != nil {
		return nil, err
	}
	if err := net.LoadStateDict(dict); err != nil {
		return nil, err
	}
	return net, nil
}

func shapeEqual(shape []int, dims ...int) bool {
	if len(shape) != len(dims) {
		return false
	}
	for i := range shape {
		if shape[i] != dims[i] {
			return false
		}
	}
	return true
}
