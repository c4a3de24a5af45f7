package sfs

// This file is the algorithmic centre of the package: it translates
// byte-granular user requests into block-aligned disk I/O, combining a
// read-modify-write for a partial head block, whole-block passthrough for
// the middle, and cursor/chain extension for file growth. Grounded on
// original_source's file_descriptor.c (fdesc_write/fdesc_read/fdesc_seek).

// writeFile implements spec.md §4.6's write algorithm. It never returns an
// error for allocation exhaustion: the write is truncated at the failure
// point, and the returned count is exactly what was persisted.
func (fs *FS) writeFile(of *openFile, dirIdx int, buf []byte) (int, error) {
	written := 0
	remaining := len(buf)
	cur := &of.write

	// Partial head: the write cursor sits inside a block of the chain. A
	// link left unbound (a seek past end-of-file) gets a data block first;
	// if none is free, the loop below stops the write.
	if cur.byteOff > 0 && cur.byteOff < fs.layout.BlockSize &&
		(fs.fatTable.dataBlockOf(cur.fatIdx) != noData || fs.fatTable.bindDataBlock(cur.fatIdx, fs.fbl)) {
		db := fs.fatTable.dataBlockOf(cur.fatIdx)
		if _, err := fs.device.ReadBlocks(fs.scratch, int64(db)); err != nil {
			return 0, err
		}
		n := remaining
		if fill := fs.layout.BlockSize - cur.byteOff; n > fill {
			n = fill
		}
		copy(fs.scratch[cur.byteOff:cur.byteOff+n], buf[:n])
		if _, err := fs.device.WriteBlocks(fs.scratch, int64(db)); err != nil {
			return 0, err
		}
		cur.byteOff += n
		written += n
		remaining -= n
		buf = buf[n:]
	}

	for remaining > 0 {
		if cur.byteOff == fs.layout.BlockSize {
			cur.byteOff = 0
			if fs.fatTable.nextOf(cur.fatIdx) == endOfFile {
				next := fs.fatTable.createEntry()
				if next < 0 {
					break // out of FAT space: stop, report partial write
				}
				fs.fatTable.setNext(cur.fatIdx, int32(next))
			}
			cur.fatIdx = fs.fatTable.nextOf(cur.fatIdx)
		}

		if fs.fatTable.dataBlockOf(cur.fatIdx) == noData {
			if !fs.fatTable.bindDataBlock(cur.fatIdx, fs.fbl) {
				break // out of data blocks: stop, report partial write
			}
		}

		n := remaining
		if n > fs.layout.BlockSize {
			n = fs.layout.BlockSize
		}
		db := fs.fatTable.dataBlockOf(cur.fatIdx)
		if n == fs.layout.BlockSize {
			// Full block: the source bytes are written directly.
			if _, err := fs.device.WriteBlocks(buf[:n], int64(db)); err != nil {
				return written, err
			}
		} else {
			// Partial final block: the block is being created, not
			// updated, so the tail past n has no defined content. Zero
			// it rather than leaking whatever the scratch buffer last
			// held.
			for i := range fs.scratch {
				fs.scratch[i] = 0
			}
			copy(fs.scratch, buf[:n])
			if _, err := fs.device.WriteBlocks(fs.scratch[:fs.layout.BlockSize], int64(db)); err != nil {
				return written, err
			}
		}
		cur.byteOff += n
		written += n
		remaining -= n
		buf = buf[n:]
	}

	fs.dir.addSize(dirIdx, int64(written))
	if err := fs.flush(); err != nil {
		return written, err
	}
	return written, nil
}

// readFile implements spec.md §4.6's read algorithm. Reads never extend the
// file, never allocate, and never mutate the FAT, directory or free list.
func (fs *FS) readFile(of *openFile, buf []byte) (int, error) {
	read := 0
	remaining := len(buf)
	cur := &of.read

	for remaining > 0 {
		if cur.byteOff == fs.layout.BlockSize {
			cur.byteOff = 0
			if fs.fatTable.nextOf(cur.fatIdx) == endOfFile {
				return read, ErrUnknown
			}
			cur.fatIdx = fs.fatTable.nextOf(cur.fatIdx)
		}

		if cur.fatIdx == endOfFile || fs.fatTable.dataBlockOf(cur.fatIdx) == noData {
			return read, ErrUnknown
		}

		n := remaining
		if fill := fs.layout.BlockSize - cur.byteOff; n > fill {
			n = fill
		}
		db := fs.fatTable.dataBlockOf(cur.fatIdx)
		if _, err := fs.device.ReadBlocks(fs.scratch, int64(db)); err != nil {
			return read, err
		}
		copy(buf[:n], fs.scratch[cur.byteOff:cur.byteOff+n])
		cur.byteOff += n
		read += n
		remaining -= n
		buf = buf[n:]
	}
	return read, nil
}

// seekFile implements spec.md §4.6's seek: walk at most blocks links from
// the FAT root, stopping early on endOfFile, and set both cursors to the
// resulting (fatIdx, loc%BlockSize). Seeking past EOF leaves both cursors
// at the final existing link with the requested byte offset.
func (fs *FS) seekFile(of *openFile, loc int64) {
	blocks := int(loc / int64(fs.layout.BlockSize))
	idx := of.fatRoot
	for i := 0; i < blocks; i++ {
		next := fs.fatTable.nextOf(idx)
		if next == endOfFile {
			break // stop at the final existing link rather than walk off it
		}
		idx = next
	}
	byteOff := int(loc % int64(fs.layout.BlockSize))
	of.read = cursor{fatIdx: idx, byteOff: byteOff}
	of.write = cursor{fatIdx: idx, byteOff: byteOff}
}
