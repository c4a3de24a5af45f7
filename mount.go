package sfs

import "log/slog"

// Format lays a fresh SFS volume onto dev and returns a mounted FS with
// every cache initialised empty (spec.md §4.7, mksfs(fresh=true)). dev is
// assumed to already be the right size in blocks — formatting the
// underlying storage (zeroing it, sizing the file) is internal/blockdev's
// job, not the core's.
func Format(dev BlockDevice, p Params) (*FS, error) {
	l, err := newLayout(p)
	if err != nil {
		return nil, err
	}

	fs := &FS{
		device: dev,
		layout: l,
		sb: superBlock{
			BlockSize:       uint16(p.BlockSize),
			DirBlocks:       uint16(p.DirectoryBlocks),
			FATBlocks:       uint16(l.fatBlocks),
			TotalDataBlocks: uint32(p.TotalDataBlocks),
			NumFreeBlocks:   uint32(p.TotalDataBlocks),
		},
		dir:       newDirectory(l.numDirEntries(), p.MaxNameLen),
		fatTable:  newFAT(p.TotalDataBlocks, l.dataStart),
		fbl:       newFreeBlockList(p.TotalDataBlocks),
		openFiles: newOpenFileTable(p.MaxOpen, p.BlockSize),
		scratch:   make([]byte, p.BlockSize),
	}
	fs.trace("fs:format", slog.Int("blockSize", p.BlockSize), slog.Int("dataBlocks", p.TotalDataBlocks))
	if err := fs.flush(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Mount opens an existing SFS volume on dev and loads every cache from it
// (spec.md §4.7, mksfs(fresh=false)): the super block, directory, FAT and
// free-block list are read in one batch covering blocks [0, dataStart) and
// deserialised in that order.
func Mount(dev BlockDevice, p Params) (*FS, error) {
	l, err := newLayout(p)
	if err != nil {
		return nil, err
	}

	header := make([]byte, l.dataStart*int64(p.BlockSize))
	if _, err := dev.ReadBlocks(header, 0); err != nil {
		return nil, err
	}

	fs := &FS{
		device:    dev,
		layout:    l,
		dir:       newDirectory(l.numDirEntries(), p.MaxNameLen),
		fatTable:  newFAT(p.TotalDataBlocks, l.dataStart),
		fbl:       newFreeBlockList(p.TotalDataBlocks),
		openFiles: newOpenFileTable(p.MaxOpen, p.BlockSize),
		scratch:   make([]byte, p.BlockSize),
	}
	fs.trace("fs:mount", slog.Int("blockSize", p.BlockSize))

	fs.sb.decode(header[:sizeofSuperBlock])

	dirOff := l.dirStart * int64(p.BlockSize)
	fs.dir.decode(header[dirOff : dirOff+l.dirBytes()])

	fatOff := l.fatStart * int64(p.BlockSize)
	fs.fatTable.decode(header[fatOff : fatOff+l.fatBytes()])

	freeOff := l.freeListStart * int64(p.BlockSize)
	fs.fbl.loadRaw(header[freeOff : freeOff+l.freeListBytes()])

	return fs, nil
}
