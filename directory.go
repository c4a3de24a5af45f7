package sfs

import "golang.org/x/text/unicode/norm"

// dirEntry is the in-memory image of one directory slot.
type dirEntry struct {
	used    bool
	name    string
	size    int64
	fatRoot int32
}

// directory is the flat-namespace directory table. Grounded on
// original_source's dir_cache.c. The core itself never enforces name
// uniqueness (spec.md §4.4); callers (the Open façade) must.
type directory struct {
	entries    []dirEntry
	maxNameLen int
}

func newDirectory(numEntries, maxNameLen int) *directory {
	return &directory{entries: make([]dirEntry, numEntries), maxNameLen: maxNameLen}
}

// canonicalName applies NFC normalisation so canonically-equal UTF-8 names
// compare and store identically (SPEC_FULL.md §4.8), then enforces the
// stored-byte-length limit.
func (d *directory) canonicalName(name string) (string, error) {
	n := norm.NFC.String(name)
	if len(n) > d.maxNameLen {
		return "", ErrNameTooLong
	}
	return n, nil
}

// find returns the slot index of name, or -1 if absent.
func (d *directory) find(name string) int {
	for i := range d.entries {
		if d.entries[i].used && d.entries[i].name == name {
			return i
		}
	}
	return -1
}

// create allocates the first free directory slot and a fresh FAT root for
// name. Returns the slot index, or -1 if the directory or the FAT is full.
func (d *directory) create(name string, fatTable *fat) int {
	slot := -1
	for i := range d.entries {
		if !d.entries[i].used {
			slot = i
			break
		}
	}
	if slot < 0 {
		return -1
	}
	root := fatTable.createEntry()
	if root < 0 {
		return -1
	}
	d.entries[slot] = dirEntry{used: true, name: name, size: 0, fatRoot: int32(root)}
	return slot
}

func (d *directory) size(i int) int64           { return d.entries[i].size }
func (d *directory) setSize(i int, v int64)     { d.entries[i].size = v }
func (d *directory) addSize(i int, delta int64) { d.entries[i].size += delta }
func (d *directory) fatRoot(i int) int32        { return d.entries[i].fatRoot }
func (d *directory) name(i int) string          { return d.entries[i].name }
func (d *directory) remove(i int)               { d.entries[i] = dirEntry{} }

// list returns the index of every used slot in ascending order.
func (d *directory) list() []int {
	var out []int
	for i := range d.entries {
		if d.entries[i].used {
			out = append(out, i)
		}
	}
	return out
}

func (d *directory) encode(buf []byte) {
	entrySize := sizeofDirEntry(d.maxNameLen)
	for i := range d.entries {
		r := toDirEntryRecord(buf[i*entrySize:], d.maxNameLen)
		e := d.entries[i]
		r.SetUsed(e.used)
		if e.used {
			r.SetName(e.name)
			r.SetSize(e.size)
			r.SetFATRoot(uint16(e.fatRoot))
		} else {
			r.SetName("")
			r.SetSize(0)
			r.SetFATRoot(0)
		}
	}
}

func (d *directory) decode(buf []byte) {
	entrySize := sizeofDirEntry(d.maxNameLen)
	for i := range d.entries {
		r := toDirEntryRecord(buf[i*entrySize:], d.maxNameLen)
		if !r.Used() {
			d.entries[i] = dirEntry{}
			continue
		}
		d.entries[i] = dirEntry{
			used:    true,
			name:    string(r.Name()),
			size:    r.Size(),
			fatRoot: int32(r.FATRoot()),
		}
	}
}
