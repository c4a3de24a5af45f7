package sfs

import "fmt"

// Params parameterises the on-disk layout. DefaultParams reproduces the
// reference constants; tests may shrink them to exercise the algorithms
// against small devices.
type Params struct {
	BlockSize       int // bytes per block
	DirectoryBlocks int // blocks reserved for the directory table
	FreeListBlocks  int // blocks reserved for the free-block bitmap
	TotalDataBlocks int // number of addressable data blocks
	MaxNameLen      int // maximum stored name length in bytes
	MaxOpen         int // size of the open-file table
}

// DefaultParams returns the reference-implementation constants:
// 512-byte blocks, a 100-block directory, a one-block free list sized for
// 4096 data blocks, 256-byte names and 1000 open files.
func DefaultParams() Params {
	const blockSize = 512
	return Params{
		BlockSize:       blockSize,
		DirectoryBlocks: 100,
		FreeListBlocks:  1,
		TotalDataBlocks: blockSize * 8,
		MaxNameLen:      256,
		MaxOpen:         1000,
	}
}

// layout holds the block offsets derived from a Params value. It is
// recomputed once at Format/Mount time and never mutated afterwards.
type layout struct {
	Params

	dirEntrySize int
	fatEntrySize int

	dirStart      int64 // first directory block
	fatStart      int64 // first FAT block
	fatBlocks     int64 // number of FAT blocks
	freeListStart int64 // first free-list block
	dataStart     int64 // first data block (absolute disk index)
	numBlocks     int64 // total device size in blocks
}

func newLayout(p Params) (layout, error) {
	if p.BlockSize <= 0 || p.DirectoryBlocks <= 0 || p.FreeListBlocks <= 0 ||
		p.TotalDataBlocks <= 0 || p.MaxNameLen <= 0 || p.MaxOpen <= 0 {
		return layout{}, fmt.Errorf("sfs: invalid params %+v", p)
	}
	if p.TotalDataBlocks > p.FreeListBlocks*p.BlockSize*8 {
		return layout{}, fmt.Errorf("sfs: free list of %d blocks cannot address %d data blocks",
			p.FreeListBlocks, p.TotalDataBlocks)
	}

	l := layout{Params: p}
	l.dirEntrySize = sizeofDirEntry(p.MaxNameLen)
	l.fatEntrySize = sizeofFatEntry

	l.dirStart = 1 // block 0 is the super block
	l.fatStart = l.dirStart + int64(p.DirectoryBlocks)

	fatBytes := int64(l.fatEntrySize) * int64(p.TotalDataBlocks)
	l.fatBlocks = (fatBytes + int64(p.BlockSize) - 1) / int64(p.BlockSize)

	l.freeListStart = l.fatStart + l.fatBlocks
	l.dataStart = l.freeListStart + int64(p.FreeListBlocks)
	l.numBlocks = l.dataStart + int64(p.TotalDataBlocks)
	return l, nil
}

// dirBytes is the total byte size of the on-disk directory region.
func (l layout) dirBytes() int64 { return int64(l.DirectoryBlocks) * int64(l.BlockSize) }

// fatBytes is the total byte size of the on-disk FAT region.
func (l layout) fatBytes() int64 { return l.fatBlocks * int64(l.BlockSize) }

// freeListBytes is the total byte size of the on-disk free-block bitmap.
func (l layout) freeListBytes() int64 { return int64(l.FreeListBlocks) * int64(l.BlockSize) }

// numDirEntries is how many fixed-size directory slots fit in dirBytes.
func (l layout) numDirEntries() int { return int(l.dirBytes()) / l.dirEntrySize }
