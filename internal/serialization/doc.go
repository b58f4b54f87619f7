// Package serialization provides the native .bpn format for saving and loading
// trained networks.
//
// The .bpn format stores named float64 tensors plus a JSON header:
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00-0x03: Magic "BPNT"
//	    0x04-0x07: Version (uint32 LE)
//	    0x08-0x0B: Flags (uint32 LE)
//	    0x0C-0x0F: Reserved
//	    0x10-0x17: Header size (uint64 LE)
//	    0x18-0x1F: Data size (uint64 LE)
//	    0x20-0x3F: SHA-256 of the data section
//	  [Header: JSON metadata]
//	  [Padding to a 64-byte boundary]
//	  [Tensor data: IEEE-754 float64, little endian]
//
// Values are stored as their exact bit patterns, so a network written and
// read back is identical bit for bit.
//
// Example usage:
//
//	// Save
//	w, err := serialization.NewWriter("model.bpn")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.WriteStateDict(stateDict, header)
//
//	// Load
//	r, err := serialization.NewReader("model.bpn")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	stateDict, err := r.ReadStateDict()
package serialization
