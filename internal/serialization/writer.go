package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"
)

// LibraryVersion is recorded in every written header.
const LibraryVersion = "0.1.0"

// Writer writes networks to a .bpn file.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .bpn file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary with header to the file.
//
// Tensor metadata, format version and checksum in header are filled in by
// the writer. Zero CreatedAt and LibraryVersion are also filled in.
func (w *Writer) WriteStateDict(stateDict map[string]Tensor, header Header) error {
	if w.closed {
		return ErrClosed
	}
	return Encode(w.file, stateDict, header)
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close() // Best effort close on error
		return fmt.Errorf("failed to sync file: %w", err)
	}
	return w.file.Close()
}

// Encode writes stateDict in .bpn format to out.
//
// Tensors are laid out in name order so the same state always produces the
// same bytes apart from CreatedAt.
func Encode(out io.Writer, stateDict map[string]Tensor, header Header) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	header.FormatVersion = FormatVersion
	if header.LibraryVersion == "" {
		header.LibraryVersion = LibraryVersion
	}
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Calculate tensor offsets and encode data
	var data []byte
	header.Tensors = make([]TensorMeta, 0, len(names))
	for _, name := range names {
		t := stateDict[name]
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}

		size := int64(len(t.Data) * float64ByteWidth)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  append([]int(nil), t.Shape...),
			Offset: int64(len(data)),
			Size:   size,
		})

		for _, v := range t.Data {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	checksum := ComputeChecksum(data)

	fixed := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes
	copy(fixed[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasCheckpoint
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)

	// 0x10-0x17: Header size
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))

	// 0x18-0x1F: Data size
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))

	// 0x20-0x3F: SHA-256 checksum
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := out.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}

	if _, err := out.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	pos := int64(FixedHeaderSize + len(headerJSON))
	if padding := alignedPosition(pos) - pos; padding > 0 {
		if _, err := out.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}
