// Package loader reads flat program images for the simulator. An image
// is a sequence of little-endian 32-bit instruction words; an optional
// sidecar value supplies the entry point.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Program is a loaded program image ready for execution.
type Program struct {
	// EntryPoint is the address where execution begins and where the
	// image is placed in memory.
	EntryPoint uint64

	// Words holds the instruction stream in execution order.
	Words []uint32
}

// Bytes returns the image as little-endian bytes for loading into
// emulator memory.
func (p *Program) Bytes() []byte {
	buf := make([]byte, 0, 4*len(p.Words))
	for _, w := range p.Words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

// Load reads a flat image from path with the given entry point.
func Load(path string, entry uint64) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(data, entry)
}

// FromBytes builds a Program from raw image bytes.
func FromBytes(data []byte, entry uint64) (*Program, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty program image")
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf(
			"image size %d is not a multiple of 4", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return &Program{EntryPoint: entry, Words: words}, nil
}
