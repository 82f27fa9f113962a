package buffer

import (
	"fmt"

	"github.com/ryogrid/SamehadaBufMgr/errors"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

const (
	ErrBufferExceeded     = errors.Error("buffer pool exceeded. all frames are pinned")
	ErrPageNotPinned      = errors.Error("page is not pinned")
	ErrPagePinned         = errors.Error("page is pinned")
	ErrHashAlreadyPresent = errors.Error("entry is already present in buffer hash table")
	ErrHashNotFound       = errors.Error("entry is not found in buffer hash table")
	ErrBadBuffer          = errors.Error("frame state is inconsistent with buffer hash table")
	ErrInvalidPoolSize    = errors.Error("frame num of buffer pool must be positive")
	ErrBufMgrClosed       = errors.Error("buffer pool manager is already closed")
)

// BufferExceededError is returned when no frame can be victimized
type BufferExceededError struct {
	NumBufs uint32
}

func (e *BufferExceededError) Error() string {
	return fmt.Sprintf("%s (frames: %d)", ErrBufferExceeded, e.NumBufs)
}

func (e *BufferExceededError) Unwrap() error { return ErrBufferExceeded }

// PageNotPinnedError is returned by UnpinPage when pin count of the page is already zero
type PageNotPinnedError struct {
	Filename string
	PageNo   types.PageID
	FrameNo  FrameID
}

func (e *PageNotPinnedError) Error() string {
	return fmt.Sprintf("%s. file:%s page:%d frame:%d", ErrPageNotPinned, e.Filename, e.PageNo, e.FrameNo)
}

func (e *PageNotPinnedError) Unwrap() error { return ErrPageNotPinned }

// PagePinnedError is returned by FlushFile when a page of the file is still pinned
type PagePinnedError struct {
	Filename string
	PageNo   types.PageID
	FrameNo  FrameID
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf("%s. file:%s page:%d frame:%d", ErrPagePinned, e.Filename, e.PageNo, e.FrameNo)
}

func (e *PagePinnedError) Unwrap() error { return ErrPagePinned }

// HashAlreadyPresentError holds the frame which is already mapped to the key
type HashAlreadyPresentError struct {
	Filename string
	PageNo   types.PageID
	FrameNo  FrameID
}

func (e *HashAlreadyPresentError) Error() string {
	return fmt.Sprintf("%s. file:%s page:%d frame:%d", ErrHashAlreadyPresent, e.Filename, e.PageNo, e.FrameNo)
}

func (e *HashAlreadyPresentError) Unwrap() error { return ErrHashAlreadyPresent }

// BadBufferError reports the state of a frame which has no consistent hash table entry
type BadBufferError struct {
	FrameNo FrameID
	Dirty   bool
	Valid   bool
	Refbit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("%s. frame:%d dirty:%v valid:%v refbit:%v", ErrBadBuffer, e.FrameNo, e.Dirty, e.Valid, e.Refbit)
}

func (e *BadBufferError) Unwrap() error { return ErrBadBuffer }
