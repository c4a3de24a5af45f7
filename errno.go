package sfs

import "fmt"

// Errno is a sentinel error carrying one of the negative result codes
// defined by the on-disk API contract. The numeric value is stable and can
// be recovered with int32(err.(Errno)) for callers that need the raw code.
type Errno int32

// Sentinel codes. Values match the reference implementation's negative
// return codes; callers should compare with errors.Is rather than rely on
// the exact integer.
const (
	ErrNotFound   Errno = -99 // file or file descriptor does not exist
	ErrOutOfSpace Errno = -98 // directory full, FAT full, or no free data block
	ErrMaxOpen    Errno = -97 // open-file table full
	ErrUnknown    Errno = -96 // attempt to read past a terminal chain entry

	// ErrNameTooLong and ErrClosed have no on-disk sentinel; they guard
	// ambient conditions the reference implementation leaves undefined.
	ErrNameTooLong Errno = -95
	ErrClosed      Errno = -94
)

func (e Errno) Error() string {
	switch e {
	case ErrNotFound:
		return "sfs: not found"
	case ErrOutOfSpace:
		return "sfs: out of space"
	case ErrMaxOpen:
		return "sfs: too many open files"
	case ErrUnknown:
		return "sfs: read past end of file"
	case ErrNameTooLong:
		return "sfs: name too long"
	case ErrClosed:
		return "sfs: file system is closed"
	default:
		return fmt.Sprintf("sfs: errno %d", int32(e))
	}
}
