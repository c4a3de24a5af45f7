package sfs

import "testing"

func TestOpenFileTableCreateInitialCursors(t *testing.T) {
	d, f := newTestDirectory(4)
	ot := newOpenFileTable(4, 16)

	idx := d.create("a.txt", f)
	d.addSize(idx, 20) // two blocks at blockSize=16: first full, second holds 4 bytes
	f.bindDataBlock(d.fatRoot(idx), newFreeBlockList(4))

	fd := ot.create(d, f, idx)
	if fd < 0 {
		t.Fatal("create() should find a free slot")
	}
	of, ok := ot.get(fd)
	if !ok {
		t.Fatal("get() should find the freshly created entry")
	}
	if of.name != "a.txt" {
		t.Fatalf("name = %q, want a.txt", of.name)
	}
	if of.read.fatIdx != d.fatRoot(idx) || of.read.byteOff != 0 {
		t.Fatalf("read cursor = %+v, want {root, 0}", of.read)
	}
	if of.write.fatIdx != f.tail(d.fatRoot(idx)) {
		t.Fatalf("write cursor fatIdx = %d, want tail %d", of.write.fatIdx, f.tail(d.fatRoot(idx)))
	}
	if of.write.byteOff != 4 {
		t.Fatalf("write cursor byteOff = %d, want 20%%16=4", of.write.byteOff)
	}
}

func TestOpenFileTableFindByName(t *testing.T) {
	d, f := newTestDirectory(4)
	ot := newOpenFileTable(4, 16)
	idx := d.create("x", f)
	fd := ot.create(d, f, idx)

	if got := ot.findByName("x"); got != fd {
		t.Fatalf("findByName() = %d, want %d", got, fd)
	}
	if got := ot.findByName("missing"); got != -1 {
		t.Fatalf("findByName() on a name with no open fd = %d, want -1", got)
	}
}

func TestOpenFileTableDestroyFreesSlot(t *testing.T) {
	d, f := newTestDirectory(4)
	ot := newOpenFileTable(1, 16)
	idx := d.create("x", f)
	fd := ot.create(d, f, idx)

	if !ot.destroy(fd) {
		t.Fatal("destroy() on an open fd should succeed")
	}
	if _, ok := ot.get(fd); ok {
		t.Fatal("get() should fail after destroy")
	}
	idx2 := d.create("y", f)
	if ot.create(d, f, idx2) != fd {
		t.Fatal("a destroyed slot should be reusable by a later create")
	}
}

func TestOpenFileTableMaxOpen(t *testing.T) {
	d, f := newTestDirectory(4)
	ot := newOpenFileTable(1, 16)
	a := d.create("a", f)
	b := d.create("b", f)

	if ot.create(d, f, a) < 0 {
		t.Fatal("first create() should succeed")
	}
	if got := ot.create(d, f, b); got != -1 {
		t.Fatalf("create() beyond maxOpen = %d, want -1", got)
	}
}

func TestOpenFileTableDestroyUnknownFd(t *testing.T) {
	ot := newOpenFileTable(2, 16)
	if ot.destroy(0) {
		t.Fatal("destroy() on a never-opened fd should fail")
	}
	if ot.destroy(99) {
		t.Fatal("destroy() on an out-of-range fd should fail")
	}
}
