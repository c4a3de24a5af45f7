package sfs

// Chain-link sentinels (spec.md §3). Kept as named constants rather than
// scattering -1/-2 literals at call sites (spec.md §9, "sentinel-valued
// indices vs variants").
const (
	endOfFile int32 = -1
	noData    int32 = -2
)

// fatEntry is the in-memory image of one File Allocation Table slot.
type fatEntry struct {
	used      bool
	dataBlock int32 // absolute disk index, or noData
	next      int32 // fat index, or endOfFile
}

func (e fatEntry) isEOF() bool     { return e.next == endOfFile }
func (e fatEntry) isUnbound() bool { return e.dataBlock == noData }

// fat is the File Allocation Table cache: a fixed-size table of entries,
// each describing one link in a file's data-block chain. Grounded on
// original_source's fat_cache.c.
type fat struct {
	entries   []fatEntry
	dataStart int64 // absolute disk index of data block 0, for bindDataBlock
}

func newFAT(numEntries int, dataStart int64) *fat {
	return &fat{entries: make([]fatEntry, numEntries), dataStart: dataStart}
}

// createEntry allocates the first unused slot as {used, data=noData,
// next=endOfFile} and returns its index, or -1 if the table is full.
func (f *fat) createEntry() int {
	for i := range f.entries {
		if !f.entries[i].used {
			f.entries[i] = fatEntry{used: true, dataBlock: noData, next: endOfFile}
			return i
		}
	}
	return -1
}

// tail walks next pointers from root until endOfFile and returns the final
// index. Chains are acyclic by invariant, so this always terminates.
func (f *fat) tail(root int32) int32 {
	idx := root
	for f.entries[idx].next != endOfFile {
		idx = f.entries[idx].next
	}
	return idx
}

func (f *fat) dataBlockOf(idx int32) int32 { return f.entries[idx].dataBlock }
func (f *fat) nextOf(idx int32) int32      { return f.entries[idx].next }

// setNext links idx to next, which must be endOfFile or an already-used
// slot — this is the only place a chain can grow, and it never creates a
// cycle because next always targets a fresh or terminal slot.
func (f *fat) setNext(idx, next int32) {
	f.entries[idx].next = next
}

// bindDataBlock acquires a free data block from fbl and attaches it to idx
// as an absolute disk index. Returns false if the device has no free
// blocks left; idx is left unbound in that case.
func (f *fat) bindDataBlock(idx int32, fbl *freeBlockList) bool {
	slot := fbl.acquire()
	if slot < 0 {
		return false
	}
	f.entries[idx].dataBlock = int32(f.dataStart) + int32(slot)
	return true
}

// freeChain walks the chain rooted at root, releasing every bound data
// block back to fbl and clearing each slot. Tolerates single-entry chains.
func (f *fat) freeChain(root int32, fbl *freeBlockList) {
	idx := root
	for idx != endOfFile {
		e := f.entries[idx]
		if !e.isUnbound() {
			fbl.release(int(e.dataBlock - int32(f.dataStart)))
		}
		next := e.next
		f.entries[idx] = fatEntry{}
		idx = next
	}
}

func (f *fat) encode(buf []byte) {
	for i := range f.entries {
		r := toFatEntryRecord(buf[i*sizeofFatEntry:])
		e := f.entries[i]
		r.SetUsed(e.used)
		r.SetDataBlock(e.dataBlock)
		r.SetNext(e.next)
	}
}

func (f *fat) decode(buf []byte) {
	for i := range f.entries {
		r := toFatEntryRecord(buf[i*sizeofFatEntry:])
		if !r.Used() {
			f.entries[i] = fatEntry{}
			continue
		}
		f.entries[i] = fatEntry{used: true, dataBlock: r.DataBlock(), next: r.Next()}
	}
}
