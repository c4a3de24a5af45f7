package sfs

import "encoding/binary"

// The on-disk records below are fixed-size byte-slice-backed accessors: each
// type wraps a slice of an in-memory block buffer and reads/writes its
// fields with encoding/binary.LittleEndian directly against it, so the
// in-memory and on-disk representations stay byte-identical without an
// unsafe struct cast. This mirrors the BPB/FSInfo/directory-entry accessors
// of the reference FAT library, adapted to SFS's own fixed records.

const sizeofSuperBlock = 16

// superBlockRecord is the on-disk image of the super block (block 0).
type superBlockRecord struct{ data []byte }

func toSuperBlockRecord(b []byte) superBlockRecord {
	return superBlockRecord{data: b[:sizeofSuperBlock:sizeofSuperBlock]}
}

func (r superBlockRecord) BlockSize() uint16        { return binary.LittleEndian.Uint16(r.data[0:2]) }
func (r superBlockRecord) SetBlockSize(v uint16)    { binary.LittleEndian.PutUint16(r.data[0:2], v) }
func (r superBlockRecord) DirBlocks() uint16        { return binary.LittleEndian.Uint16(r.data[2:4]) }
func (r superBlockRecord) SetDirBlocks(v uint16)    { binary.LittleEndian.PutUint16(r.data[2:4], v) }
func (r superBlockRecord) FATBlocks() uint16        { return binary.LittleEndian.Uint16(r.data[4:6]) }
func (r superBlockRecord) SetFATBlocks(v uint16)    { binary.LittleEndian.PutUint16(r.data[4:6], v) }
func (r superBlockRecord) TotalDataBlocks() uint32  { return binary.LittleEndian.Uint32(r.data[8:12]) }
func (r superBlockRecord) SetTotalDataBlocks(v uint32) {
	binary.LittleEndian.PutUint32(r.data[8:12], v)
}
func (r superBlockRecord) NumFreeBlocks() uint32 { return binary.LittleEndian.Uint32(r.data[12:16]) }
func (r superBlockRecord) SetNumFreeBlocks(v uint32) {
	binary.LittleEndian.PutUint32(r.data[12:16], v)
}

// sizeofDirEntry returns the byte size of one directory slot for a given
// maximum name length: used(1) + name(maxName) + size(8) + fatRoot(2).
func sizeofDirEntry(maxName int) int { return 1 + maxName + 8 + 2 }

// dirEntryRecord is the on-disk image of one directory slot.
type dirEntryRecord struct {
	data    []byte
	maxName int
}

func toDirEntryRecord(b []byte, maxName int) dirEntryRecord {
	n := sizeofDirEntry(maxName)
	return dirEntryRecord{data: b[:n:n], maxName: maxName}
}

func (r dirEntryRecord) Used() bool     { return r.data[0] == 1 }
func (r dirEntryRecord) SetUsed(v bool) {
	if v {
		r.data[0] = 1
	} else {
		r.data[0] = 0
	}
}

// Name returns the raw stored name bytes up to the first zero byte.
func (r dirEntryRecord) Name() []byte {
	raw := r.data[1 : 1+r.maxName]
	for i, b := range raw {
		if b == 0 {
			return raw[:i]
		}
	}
	return raw
}

// SetName zero-pads and stores name, truncated to maxName bytes.
func (r dirEntryRecord) SetName(name string) {
	dst := r.data[1 : 1+r.maxName]
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, name)
}

func (r dirEntryRecord) Size() int64 {
	off := 1 + r.maxName
	return int64(binary.LittleEndian.Uint64(r.data[off : off+8]))
}

func (r dirEntryRecord) SetSize(v int64) {
	off := 1 + r.maxName
	binary.LittleEndian.PutUint64(r.data[off:off+8], uint64(v))
}

func (r dirEntryRecord) FATRoot() uint16 {
	off := 1 + r.maxName + 8
	return binary.LittleEndian.Uint16(r.data[off : off+2])
}

func (r dirEntryRecord) SetFATRoot(v uint16) {
	off := 1 + r.maxName + 8
	binary.LittleEndian.PutUint16(r.data[off:off+2], v)
}

const sizeofFatEntry = 9 // used(1) + data_block(4) + next(4)

// fatEntryRecord is the on-disk image of one FAT slot.
type fatEntryRecord struct{ data []byte }

func toFatEntryRecord(b []byte) fatEntryRecord {
	return fatEntryRecord{data: b[:sizeofFatEntry:sizeofFatEntry]}
}

func (r fatEntryRecord) Used() bool { return r.data[0] == 1 }
func (r fatEntryRecord) SetUsed(v bool) {
	if v {
		r.data[0] = 1
	} else {
		r.data[0] = 0
	}
}

func (r fatEntryRecord) DataBlock() int32 {
	return int32(binary.LittleEndian.Uint32(r.data[1:5]))
}
func (r fatEntryRecord) SetDataBlock(v int32) {
	binary.LittleEndian.PutUint32(r.data[1:5], uint32(v))
}
func (r fatEntryRecord) Next() int32 { return int32(binary.LittleEndian.Uint32(r.data[5:9])) }
func (r fatEntryRecord) SetNext(v int32) {
	binary.LittleEndian.PutUint32(r.data[5:9], uint32(v))
}
