package blockdev

import "fmt"

// Mem is an in-memory block device, useful for unit tests that don't need
// real file persistence. Grounded on the reference library's own in-memory
// test device (a map of block index to fixed-size array), adapted to a
// caller-chosen block size rather than a hardcoded one.
type Mem struct {
	blockSize int
	blocks    map[int64][]byte
}

// NewMem returns an all-zero in-memory device with the given block size.
func NewMem(blockSize int) *Mem {
	return &Mem{blockSize: blockSize, blocks: make(map[int64][]byte)}
}

func (m *Mem) ReadBlocks(dst []byte, startBlock int64) (int, error) {
	if len(dst)%m.blockSize != 0 {
		return 0, fmt.Errorf("blockdev: read length %d not a multiple of block size %d", len(dst), m.blockSize)
	}
	n := len(dst) / m.blockSize
	for i := 0; i < n; i++ {
		block := m.blocks[startBlock+int64(i)]
		dst2 := dst[i*m.blockSize : (i+1)*m.blockSize]
		if block == nil {
			for j := range dst2 {
				dst2[j] = 0
			}
			continue
		}
		copy(dst2, block)
	}
	return len(dst), nil
}

func (m *Mem) WriteBlocks(data []byte, startBlock int64) (int, error) {
	if len(data)%m.blockSize != 0 {
		return 0, fmt.Errorf("blockdev: write length %d not a multiple of block size %d", len(data), m.blockSize)
	}
	n := len(data) / m.blockSize
	for i := 0; i < n; i++ {
		block := make([]byte, m.blockSize)
		copy(block, data[i*m.blockSize:(i+1)*m.blockSize])
		m.blocks[startBlock+int64(i)] = block
	}
	return len(data), nil
}
