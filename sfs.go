package sfs

import (
	"context"
	"log/slog"
)

// BlockDevice is the block-granular, synchronous storage collaborator the
// core depends on. Every call moves whole blocks; block indices are 0-based.
// See internal/blockdev for the file- and memory-backed implementations.
type BlockDevice interface {
	ReadBlocks(dst []byte, startBlock int64) (int, error)
	WriteBlocks(data []byte, startBlock int64) (int, error)
}

// FileInfo describes one directory entry, as returned by List.
type FileInfo struct {
	Name string
	Size int64
}

// FS is the file-system instance: it owns the super block, directory, FAT
// and free-block-list caches, the open-file table, and the device handle.
// Every mutating call flushes all four metadata regions before returning.
// FS has no package-level state, so tests may construct many independent
// values over distinct devices without interference (SPEC_FULL.md §5).
type FS struct {
	device BlockDevice
	layout layout

	sb        superBlock
	dir       *directory
	fatTable  *fat
	fbl       *freeBlockList
	openFiles *openFileTable

	scratch []byte // one block, reused by the read/write engine
	closed  bool

	log *slog.Logger
}

// SetLogger installs a structured logger for tracing. A nil logger (the
// zero value's log field) makes every logging call a no-op, so FS never
// requires a logger to function.
func (fs *FS) SetLogger(l *slog.Logger) { fs.log = l }

const slogLevelTrace = slog.LevelDebug - 2

func (fs *FS) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if fs.log != nil {
		fs.log.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

func (fs *FS) trace(msg string, attrs ...slog.Attr)    { fs.logattrs(slogLevelTrace, msg, attrs...) }
func (fs *FS) debug(msg string, attrs ...slog.Attr)    { fs.logattrs(slog.LevelDebug, msg, attrs...) }
func (fs *FS) info(msg string, attrs ...slog.Attr)     { fs.logattrs(slog.LevelInfo, msg, attrs...) }
func (fs *FS) warn(msg string, attrs ...slog.Attr)     { fs.logattrs(slog.LevelWarn, msg, attrs...) }
func (fs *FS) logerror(msg string, attrs ...slog.Attr) { fs.logattrs(slog.LevelError, msg, attrs...) }

// flush is the eager write-back sequence (spec.md §4.7): refresh the super
// block's free-block count, then write super block, directory, FAT and
// free-block list, in that order.
func (fs *FS) flush() error {
	fs.sb.NumFreeBlocks = uint32(fs.fbl.numFree())

	block := make([]byte, fs.layout.BlockSize)
	fs.sb.encode(block)
	if _, err := fs.device.WriteBlocks(block, 0); err != nil {
		fs.logerror("flush:superblock", slog.String("err", err.Error()))
		return err
	}

	dirBuf := make([]byte, fs.layout.dirBytes())
	fs.dir.encode(dirBuf)
	if _, err := fs.device.WriteBlocks(dirBuf, fs.layout.dirStart); err != nil {
		fs.logerror("flush:directory", slog.String("err", err.Error()))
		return err
	}

	fatBuf := make([]byte, fs.layout.fatBytes())
	fs.fatTable.encode(fatBuf)
	if _, err := fs.device.WriteBlocks(fatBuf, fs.layout.fatStart); err != nil {
		fs.logerror("flush:fat", slog.String("err", err.Error()))
		return err
	}

	freeBuf := make([]byte, fs.layout.freeListBytes())
	copy(freeBuf, fs.fbl.rawBytes())
	if _, err := fs.device.WriteBlocks(freeBuf, fs.layout.freeListStart); err != nil {
		fs.logerror("flush:freelist", slog.String("err", err.Error()))
		return err
	}
	return nil
}

// List enumerates all directory entries in ascending slot order. An
// unmounted FS reports no entries rather than returning stale state.
func (fs *FS) List() []FileInfo {
	fs.trace("fs:list")
	if fs.closed {
		return nil
	}
	idxs := fs.dir.list()
	out := make([]FileInfo, len(idxs))
	for i, idx := range idxs {
		out[i] = FileInfo{Name: fs.dir.name(idx), Size: fs.dir.size(idx)}
	}
	return out
}

// Open returns the fd of name, opening it for the first time if necessary:
// an already-open fd is reused, then an existing directory entry, then a
// freshly created one (spec.md §6.2).
func (fs *FS) Open(name string) (int, error) {
	fs.trace("fs:open", slog.String("name", name))
	if fs.closed {
		return 0, ErrClosed
	}
	cname, err := fs.dir.canonicalName(name)
	if err != nil {
		return 0, err
	}

	if fd := fs.openFiles.findByName(cname); fd >= 0 {
		return fd, nil
	}

	dirIdx := fs.dir.find(cname)
	if dirIdx < 0 {
		dirIdx = fs.dir.create(cname, fs.fatTable)
		if dirIdx < 0 {
			return 0, ErrOutOfSpace
		}
		if err := fs.flush(); err != nil {
			return 0, err
		}
	}

	fd := fs.openFiles.create(fs.dir, fs.fatTable, dirIdx)
	if fd < 0 {
		return 0, ErrMaxOpen
	}
	return fd, nil
}

// Close releases the open-file slot. An invalid fd is reported but not
// fatal (spec.md §6.2).
func (fs *FS) Close(fd int) error {
	fs.trace("fs:close", slog.Int("fd", fd))
	if fs.closed {
		return ErrClosed
	}
	if !fs.openFiles.destroy(fd) {
		return ErrNotFound
	}
	return nil
}

// Write writes buf to fd. Allocation exhaustion mid-call is not an error:
// the write is silently truncated and the directory size reflects exactly
// the bytes persisted (spec.md §7).
func (fs *FS) Write(fd int, buf []byte) (int, error) {
	fs.trace("fs:write", slog.Int("fd", fd), slog.Int("len", len(buf)))
	if fs.closed {
		return 0, ErrClosed
	}
	of, ok := fs.openFiles.get(fd)
	if !ok {
		return 0, ErrNotFound
	}
	dirIdx := fs.dir.find(of.name)
	if dirIdx < 0 {
		return 0, ErrNotFound
	}
	return fs.writeFile(of, dirIdx, buf)
}

// Read reads into buf from fd. Reading past end-of-file fails with
// ErrUnknown (spec.md §7); reads never mutate metadata.
func (fs *FS) Read(fd int, buf []byte) (int, error) {
	fs.trace("fs:read", slog.Int("fd", fd), slog.Int("len", len(buf)))
	if fs.closed {
		return 0, ErrClosed
	}
	of, ok := fs.openFiles.get(fd)
	if !ok {
		return 0, ErrNotFound
	}
	return fs.readFile(of, buf)
}

// Seek sets both the read and write cursors of fd.
func (fs *FS) Seek(fd int, loc int64) error {
	fs.trace("fs:seek", slog.Int("fd", fd), slog.Int64("loc", loc))
	if fs.closed {
		return ErrClosed
	}
	of, ok := fs.openFiles.get(fd)
	if !ok {
		return ErrNotFound
	}
	fs.seekFile(of, loc)
	return nil
}

// Unmount flushes every cache and marks fs closed: every subsequent
// error-returning call returns ErrClosed, and List reports no entries.
// Unmount itself is idempotent.
func (fs *FS) Unmount() error {
	fs.trace("fs:unmount")
	if fs.closed {
		return nil
	}
	fs.closed = true
	return fs.flush()
}

// Remove closes any open fd on name, frees its chain, clears the directory
// entry, and flushes (spec.md §6.2).
func (fs *FS) Remove(name string) error {
	fs.trace("fs:remove", slog.String("name", name))
	if fs.closed {
		return ErrClosed
	}
	cname, err := fs.dir.canonicalName(name)
	if err != nil {
		return err
	}

	if fd := fs.openFiles.findByName(cname); fd >= 0 {
		fs.openFiles.destroy(fd)
	}

	dirIdx := fs.dir.find(cname)
	if dirIdx < 0 {
		return ErrNotFound
	}

	fs.fatTable.freeChain(fs.dir.fatRoot(dirIdx), fs.fbl)
	fs.dir.remove(dirIdx)
	return fs.flush()
}
