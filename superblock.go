package sfs

// superBlock is the tiny fixed record written to block 0. BlockSize,
// DirBlocks and FATBlocks are immutable after format; NumFreeBlocks is
// refreshed from the FreeBlockList on every flush.
type superBlock struct {
	BlockSize       uint16
	DirBlocks       uint16
	FATBlocks       uint16
	TotalDataBlocks uint32
	NumFreeBlocks   uint32
}

func (sb *superBlock) encode(block []byte) {
	r := toSuperBlockRecord(block)
	r.SetBlockSize(sb.BlockSize)
	r.SetDirBlocks(sb.DirBlocks)
	r.SetFATBlocks(sb.FATBlocks)
	r.SetTotalDataBlocks(sb.TotalDataBlocks)
	r.SetNumFreeBlocks(sb.NumFreeBlocks)
}

func (sb *superBlock) decode(block []byte) {
	r := toSuperBlockRecord(block)
	sb.BlockSize = r.BlockSize()
	sb.DirBlocks = r.DirBlocks()
	sb.FATBlocks = r.FATBlocks()
	sb.TotalDataBlocks = r.TotalDataBlocks()
	sb.NumFreeBlocks = r.NumFreeBlocks()
}
