package sfs

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/blocklayer/sfs/internal/blockdev"
)

// testParams returns a small, fast-to-exercise layout: 5 directory slots,
// 64 data blocks, 64-byte blocks.
func testParams() Params {
	return Params{
		BlockSize:       64,
		DirectoryBlocks: 4,
		FreeListBlocks:  1,
		TotalDataBlocks: 64,
		MaxNameLen:      32,
		MaxOpen:         32,
	}
}

func newTestFS(t *testing.T) *FS {
	t.Helper()
	dev := blockdev.NewMem(testParams().BlockSize)
	fs, err := Format(dev, testParams())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestRoundTripWriteCloseReopenRead(t *testing.T) {
	fs := newTestFS(t)
	fd, err := fs.Open("roundtrip")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("the quick brown fox jumps over the lazy dog")
	if n, err := fs.Write(fd, want); err != nil || n != len(want) {
		t.Fatalf("Write() = (%d, %v), want (%d, nil)", n, err, len(want))
	}
	if err := fs.Close(fd); err != nil {
		t.Fatal(err)
	}

	fd2, err := fs.Open("roundtrip")
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Seek(fd2, 0); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(want))
	if n, err := fs.Read(fd2, got); err != nil || n != len(want) {
		t.Fatalf("Read() = (%d, %v), want (%d, nil)", n, err, len(want))
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, want)
	}
}

func TestUnmountRejectsFurtherUse(t *testing.T) {
	fs := newTestFS(t)
	if _, err := fs.Open("before-unmount"); err != nil {
		t.Fatal(err)
	}
	if got := fs.List(); len(got) != 1 {
		t.Fatalf("List() before Unmount = %v, want one entry", got)
	}
	if err := fs.Unmount(); err != nil {
		t.Fatal(err)
	}
	if err := fs.Unmount(); err != nil {
		t.Fatalf("second Unmount() = %v, want nil (idempotent)", err)
	}
	if _, err := fs.Open("x"); err != ErrClosed {
		t.Fatalf("Open() after Unmount = %v, want ErrClosed", err)
	}
	if got := fs.List(); got != nil {
		t.Fatalf("List() after Unmount = %v, want nil", got)
	}
}

func TestIdempotentClose(t *testing.T) {
	fs := newTestFS(t)
	fd, err := fs.Open("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Close(fd); err != nil {
		t.Fatal(err)
	}
	if err := fs.Close(fd); err != ErrNotFound {
		t.Fatalf("second Close() = %v, want ErrNotFound", err)
	}
}

// Scenario 1: two interleaved files, randomly chunked writes, reopen and
// verify bytes read equal bytes written.
func TestTwoInterleavedFiles(t *testing.T) {
	fs := newTestFS(t)
	rng := rand.New(rand.NewSource(1))

	fdA, err := fs.Open("A")
	if err != nil {
		t.Fatal(err)
	}
	fdB, err := fs.Open("B")
	if err != nil {
		t.Fatal(err)
	}

	var wantA, wantB []byte
	for i := 0; i < 20; i++ {
		chunk := randBytes(rng, 1+rng.Intn(20))
		if _, err := fs.Write(fdA, chunk); err != nil {
			t.Fatalf("write A: %v", err)
		}
		wantA = append(wantA, chunk...)

		chunk = randBytes(rng, 1+rng.Intn(20))
		if _, err := fs.Write(fdB, chunk); err != nil {
			t.Fatalf("write B: %v", err)
		}
		wantB = append(wantB, chunk...)
	}

	if err := fs.Close(fdB); err != nil {
		t.Fatal(err)
	}
	fdB2, err := fs.Open("B")
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Seek(fdA, 0); err != nil {
		t.Fatal(err)
	}
	if err := fs.Seek(fdB2, 0); err != nil {
		t.Fatal(err)
	}

	gotA := readAllChunked(t, fs, fdA, len(wantA), rng)
	gotB := readAllChunked(t, fs, fdB2, len(wantB), rng)

	if !bytes.Equal(gotA, wantA) {
		t.Fatalf("file A mismatch: got %d bytes, want %d bytes", len(gotA), len(wantA))
	}
	if !bytes.Equal(gotB, wantB) {
		t.Fatalf("file B mismatch: got %d bytes, want %d bytes", len(gotB), len(wantB))
	}
}

func randBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func readAllChunked(t *testing.T, fs *FS, fd int, total int, rng *rand.Rand) []byte {
	t.Helper()
	out := make([]byte, 0, total)
	for len(out) < total {
		n := 1 + rng.Intn(20)
		if n > total-len(out) {
			n = total - len(out)
		}
		buf := make([]byte, n)
		got, err := fs.Read(fd, buf)
		if err != nil {
			t.Fatalf("Read() failed with %d/%d bytes read: %v", len(out), total, err)
		}
		out = append(out, buf[:got]...)
	}
	return out
}

// Scenario 2: fill the directory, then verify every name reopens without fd
// collisions.
func TestFillTheDirectory(t *testing.T) {
	fs := newTestFS(t)

	var names []string
	for i := 0; ; i++ {
		name := fmt.Sprintf("file-%03d", i)
		if _, err := fs.Open(name); err != nil {
			if err != ErrOutOfSpace {
				t.Fatalf("Open() failed with unexpected error %v", err)
			}
			break
		}
		names = append(names, name)
		if len(names) > 1000 {
			t.Fatal("directory never reported ErrOutOfSpace")
		}
	}
	if len(names) == 0 {
		t.Fatal("expected at least one file to be created before running out of space")
	}

	for _, n := range names {
		if err := fs.Close(fs.openFiles.findByName(n)); err != nil {
			t.Fatalf("Close(%q): %v", n, err)
		}
	}

	seen := map[int]string{}
	for _, n := range names {
		fd, err := fs.Open(n)
		if err != nil {
			t.Fatalf("reopen %q: %v", n, err)
		}
		if other, ok := seen[fd]; ok {
			t.Fatalf("fd %d returned for both %q and %q", fd, other, n)
		}
		seen[fd] = n
	}
}

// Scenario 3: persistence round trip through Mount.
func TestPersistenceRoundTrip(t *testing.T) {
	const sentence = "A mathematician is a machine for turning coffee into theorems.\n"
	dev := blockdev.NewMem(testParams().BlockSize)
	fs, err := Format(dev, testParams())
	if err != nil {
		t.Fatal(err)
	}

	names := []string{"alpha", "beta", "gamma"}
	for _, n := range names {
		fd, err := fs.Open(n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fs.Write(fd, []byte(sentence)); err != nil {
			t.Fatal(err)
		}
		if err := fs.Close(fd); err != nil {
			t.Fatal(err)
		}
	}

	fs2, err := Mount(dev, testParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		fd, err := fs2.Open(n)
		if err != nil {
			t.Fatalf("reopen %q after mount: %v", n, err)
		}
		// The request deliberately over-reads past the file's single data
		// block, so a terminal ErrUnknown (spec.md §4.6) is expected here,
		// same as io.EOF with n>0 elsewhere: only the sentence-length
		// prefix actually read is meaningful.
		buf := make([]byte, 1024)
		got, err := fs2.Read(fd, buf)
		if err != nil && err != ErrUnknown {
			t.Fatalf("read %q after mount: %v", n, err)
		}
		if got < len(sentence) {
			t.Fatalf("file %q: only %d bytes survived mount, want at least %d", n, got, len(sentence))
		}
		if string(buf[:len(sentence)]) != sentence {
			t.Fatalf("file %q did not survive mount: got %q", n, buf[:got])
		}
	}
}

// Scenario 4 & 5: seek semantics and overwrite-the-middle.
func TestSeekSemanticsAndOverwriteMiddle(t *testing.T) {
	fs := newTestFS(t)
	fd, err := fs.Open("seek")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if _, err := fs.Write(fd, []byte("0123456789")); err != nil {
			t.Fatal(err)
		}
	}

	// The read pointer was never touched by Write, so it should still sit
	// at offset 0.
	for i := 0; i < 10; i++ {
		buf := make([]byte, 10)
		if _, err := fs.Read(fd, buf); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if string(buf) != "0123456789" {
			t.Fatalf("read %d = %q, want \"0123456789\"", i, buf)
		}
	}

	for k := 0; k <= 98; k += 7 {
		if err := fs.Seek(fd, int64(k)); err != nil {
			t.Fatal(err)
		}
		buf := make([]byte, 1)
		if _, err := fs.Read(fd, buf); err != nil {
			t.Fatalf("seek(%d); read(1): %v", k, err)
		}
		want := byte((k % 10) + '0')
		if buf[0] != want {
			t.Fatalf("seek(%d); read(1) = %q, want %q", k, buf[0], want)
		}
	}

	if err := fs.Seek(fd, 80); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Write(fd, []byte("9876543210")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Seek(fd, 85); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 10)
	if _, err := fs.Read(fd, got); err != nil {
		t.Fatal(err)
	}
	if string(got) != "4321001234" {
		t.Fatalf("post-overwrite read = %q, want \"4321001234\"", got)
	}
}

// Scenario 6: remove then recreate.
func TestRemoveThenRecreate(t *testing.T) {
	fs := newTestFS(t)
	baseline := fs.fbl.numFree()

	fd, err := fs.Open("F")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Write(fd, bytes.Repeat([]byte{0x7a}, 2000)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Close(fd); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove("F"); err != nil {
		t.Fatal(err)
	}
	if got := fs.fbl.numFree(); got != baseline {
		t.Fatalf("numFree() after remove = %d, want baseline %d", got, baseline)
	}

	fd2, err := fs.Open("F")
	if err != nil {
		t.Fatal(err)
	}
	if fs.dir.size(fs.dir.find("F")) != 0 {
		t.Fatal("recreated file should have size 0")
	}
	buf := make([]byte, 1)
	if _, err := fs.Read(fd2, buf); err != ErrUnknown {
		t.Fatalf("read on a fresh empty file = %v, want ErrUnknown", err)
	}
}
