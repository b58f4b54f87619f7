// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/born-ml/bpnet/nn"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	net, err := nn.NewSigmoid([]int{4, 3, 2}, nn.NewXavier(1))
	if err != nil {
		t.Fatal(err)
	}
	layer := nn.NewLayer[nn.Sigmoid](5, 4)

	tests := []struct {
		name   string
		module nn.Module
		in     int
		out    int
	}{
		{name: "Network", module: net, in: 4, out: 2},
		{name: "Layer", module: &layer, in: 4, out: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.module.InFeatures() != tt.in || tt.module.OutFeatures() != tt.out {
				t.Errorf("features = (%d, %d), want (%d, %d)",
					tt.module.InFeatures(), tt.module.OutFeatures(), tt.in, tt.out)
			}
			out := tt.module.Forward(make([]float64, tt.in))
			if len(out) != tt.out {
				t.Errorf("Forward returned %d values, want %d", len(out), tt.out)
			}
		})
	}
}

func TestInvalidTopology(t *testing.T) {
	_, err := nn.NewSigmoid([]int{2, -1, 1}, nil)
	if !errors.Is(err, nn.ErrInvalidTopology) {
		t.Fatalf("got %v, want ErrInvalidTopology", err)
	}

	var topoErr *nn.TopologyError
	if !errors.As(err, &topoErr) || topoErr.Index != 1 {
		t.Errorf("got %#v, want TopologyError at index 1", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bpn")
	src, err := nn.NewSigmoid([]int{2, 3, 1}, nn.NewUniform(7))
	if err != nil {
		t.Fatal(err)
	}

	if err := nn.Save(path, src, map[string]string{"note": "facade"}); err != nil {
		t.Fatal(err)
	}
	dst, err := nn.Load[nn.Sigmoid](path)
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0.3, 0.6}
	if got, want := dst.Activate(in)[0], src.Activate(in)[0]; got != want {
		t.Errorf("loaded network gives %v, want %v", got, want)
	}
}

func TestInitializerByName(t *testing.T) {
	for _, name := range []string{nn.InitRamp, nn.InitUniform, nn.InitXavier} {
		if _, err := nn.InitializerByName(name, 1); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := nn.InitializerByName("zeros", 1); !errors.Is(err, nn.ErrUnknownInitializer) {
		t.Errorf("got %v, want ErrUnknownInitializer", err)
	}
}
