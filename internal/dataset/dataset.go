// Package dataset provides training sample sets.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/bpnet/internal/nn"
)

// ErrInvalidSamples is returned when a sample set does not fit a network.
var ErrInvalidSamples = errors.New("invalid sample set")

// ErrUnknownDataset is returned by Builtin for unknown names.
var ErrUnknownDataset = errors.New("unknown dataset")

// Samples is an ordered set of (input, target) pairs.
type Samples struct {
	Inputs  [][]nn.Signal
	Targets [][]nn.Signal
}

// Len returns the number of samples.
func (s *Samples) Len() int {
	return len(s.Inputs)
}

// Validate checks that s is non-empty, that inputs and targets pair up and
// that every vector has the given width.
func (s *Samples) Validate(inputWidth, outputWidth int) error {
	if len(s.Inputs) != len(s.Targets) {
		return fmt.Errorf("%w: %d inputs and %d targets", ErrInvalidSamples, len(s.Inputs), len(s.Targets))
	}
	if len(s.Inputs) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidSamples)
	}
	for i := range s.Inputs {
		if len(s.Inputs[i]) != inputWidth {
			return fmt.Errorf("%w: sample %d has %d inputs, expected %d", ErrInvalidSamples, i, len(s.Inputs[i]), inputWidth)
		}
		if len(s.Targets[i]) != outputWidth {
			return fmt.Errorf("%w: sample %d has %d targets, expected %d", ErrInvalidSamples, i, len(s.Targets[i]), outputWidth)
		}
	}
	return nil
}

var truthTable = [][]nn.Signal{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

func gate(outputs ...nn.Signal) *Samples {
	s := &Samples{
		Inputs:  make([][]nn.Signal, len(truthTable)),
		Targets: make([][]nn.Signal, len(truthTable)),
	}
	for i := range truthTable {
		s.Inputs[i] = append([]nn.Signal(nil), truthTable[i]...)
		s.Targets[i] = []nn.Signal{outputs[i]}
	}
	return s
}

// XOR returns the exclusive-or truth table.
func XOR() *Samples { return gate(0, 1, 1, 0) }

// AND returns the conjunction truth table.
func AND() *Samples { return gate(0, 0, 0, 1) }

// OR returns the disjunction truth table.
func OR() *Samples { return gate(0, 1, 1, 1) }

var builtins = map[string]func() *Samples{
	"xor": XOR,
	"and": AND,
	"or":  OR,
}

// Builtin returns the named builtin dataset.
func Builtin(name string) (*Samples, error) {
	fn, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDataset, name, strings.Join(BuiltinNames(), ", "))
	}
	return fn(), nil
}

// BuiltinNames lists the builtin datasets in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadCSV reads samples from a CSV file.
//
// CSV Format (no header):
//
//	in0,in1,...,target0,target1,...
//	0,1,1
//
// The first inputWidth columns of every row are inputs, the rest targets.
// Lines starting with '#' are skipped.
func LoadCSV(filename string, inputWidth int) (*Samples, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for data loading
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only
	}()

	s, err := ReadCSV(file, inputWidth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ReadCSV reads samples in LoadCSV format from r.
func ReadCSV(r io.Reader, inputWidth int) (*Samples, error) {
	if inputWidth <= 0 {
		return nil, fmt.Errorf("%w: input width %d must be positive", ErrInvalidSamples, inputWidth)
	}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV has no rows", ErrInvalidSamples)
	}

	s := &Samples{
		Inputs:  make([][]nn.Signal, len(records)),
		Targets: make([][]nn.Signal, len(records)),
	}
	for i, record := range records {
		if len(record) <= inputWidth {
			return nil, fmt.Errorf("%w: row %d has %d columns, need more than %d", ErrInvalidSamples, i+1, len(record), inputWidth)
		}
		values := make([]nn.Signal, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value at row %d column %d: %w", i+1, j+1, err)
			}
			values[j] = v
		}
		s.Inputs[i] = values[:inputWidth:inputWidth]
		s.Targets[i] = values[inputWidth:]
	}
	return s, nil
}
