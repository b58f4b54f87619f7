package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// ReaderOptions configures the behavior of Decode and NewReader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Reader reads a .bpn file.
//
// The whole file is decoded when the reader is opened; the accessors only
// serve from memory.
type Reader struct {
	header    Header
	stateDict map[string]Tensor
	closed    bool
}

// NewReader opens path with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions opens path with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only, nothing to flush
	}()

	stateDict, header, err := Decode(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Reader{
		header:    header,
		stateDict: stateDict,
	}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the tensor names in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// Tensor returns a copy of the named tensor.
func (r *Reader) Tensor(name string) (Tensor, error) {
	if r.closed {
		return Tensor{}, ErrClosed
	}
	t, ok := r.stateDict[name]
	if !ok {
		return Tensor{}, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	return Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64(nil), t.Data...),
	}, nil
}

// ReadStateDict returns every tensor in the file.
func (r *Reader) ReadStateDict() (map[string]Tensor, error) {
	if r.closed {
		return nil, ErrClosed
	}
	stateDict := make(map[string]Tensor, len(r.stateDict))
	for name := range r.stateDict {
		t, err := r.Tensor(name)
		if err != nil {
			return nil, err
		}
		stateDict[name] = t
	}
	return stateDict, nil
}

// Close releases the decoded tensors.
func (r *Reader) Close() error {
	r.closed = true
	r.stateDict = nil
	return nil
}

// Decode reads a .bpn stream from in.
//
//nolint:gocyclo,cyclop // Sequential format parsing
func Decode(in io.Reader, opts ReaderOptions) (map[string]Tensor, Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(in, fixed); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}

	// 0x00-0x03: magic
	if string(fixed[0:4]) != MagicBytes {
		return nil, Header{}, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, fixed[0:4], MagicBytes)
	}

	// 0x04-0x07: version
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	// 0x10-0x17: header size, 0x18-0x1F: data size
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, Header{}, ErrHeaderTooLarge
	}

	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(in, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	pos := int64(FixedHeaderSize) + int64(headerSize)
	if padding := alignedPosition(pos) - pos; padding > 0 {
		if _, err := io.CopyN(io.Discard, in, padding); err != nil {
			return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	// Read the data section without trusting dataSize for the allocation.
	var buf bytes.Buffer
	//nolint:gosec // G115: io.LimitReader bounds the actual read
	n, err := io.Copy(&buf, io.LimitReader(in, int64(dataSize)))
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if uint64(n) != dataSize {
		return nil, Header{}, fmt.Errorf("%w: data section has %d bytes, header says %d", ErrOutOfBounds, n, dataSize)
	}
	data := buf.Bytes()

	if err := ValidateHeader(&header, n, opts.ValidationLevel); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, Header{}, err
		}
	}

	stateDict := make(map[string]Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > n {
			return nil, Header{}, &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  meta.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, n),
				Err:     ErrOutOfBounds,
			}
		}
		raw := data[meta.Offset : meta.Offset+meta.Size]
		values := make([]float64, len(raw)/float64ByteWidth)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*float64ByteWidth:]))
		}
		stateDict[meta.Name] = Tensor{
			Shape: append([]int(nil), meta.Shape...),
			Data:  values,
		}
	}

	return stateDict, header, nil
}
