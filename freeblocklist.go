package sfs

// freeBlockList is a thin semantic layer over bitField: bit i means data
// block i (relative to the data region, not the absolute disk index) is
// free. Grounded on original_source's free_block_list.c.
type freeBlockList struct {
	bits *bitField
}

func newFreeBlockList(numDataBlocks int) *freeBlockList {
	fbl := &freeBlockList{bits: newBitField(numDataBlocks)}
	fbl.bits.setAll(true) // every data block starts free
	return fbl
}

// acquire finds the first free slot, marks it used, and returns its index,
// or -1 if the device has no free data blocks left.
func (f *freeBlockList) acquire() int {
	idx := f.bits.findFirst(true)
	if idx < 0 {
		return -1
	}
	f.bits.setBit(idx, false)
	return idx
}

// release returns a slot to the free list. The caller guarantees idx was
// previously acquired and not already released.
func (f *freeBlockList) release(idx int) {
	f.bits.setBit(idx, true)
}

// numFree returns the count of free data blocks: ones mean free, by the
// canonical definition spec.md §9 settles on.
func (f *freeBlockList) numFree() int { return f.bits.popcountOnes() }

func (f *freeBlockList) rawBytes() []byte { return f.bits.rawBytes() }

func (f *freeBlockList) loadRaw(raw []byte) { f.bits.loadRaw(raw) }
