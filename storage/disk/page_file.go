package disk

import (
	"github.com/ryogrid/SamehadaBufMgr/errors"
	"github.com/ryogrid/SamehadaBufMgr/storage/page"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

const (
	ErrPageNotFound     = errors.Error("page does not exist in the file")
	ErrPageDeleted      = errors.Error("page was deleted")
	ErrChecksumMismatch = errors.Error("checksum of page slot mismatch")
	ErrPageIDMismatch   = errors.Error("page id stored in slot differs from requested one")
	ErrFileClosed       = errors.Error("page file is already closed")
)

/**
 * PageFile is a persistent container of fixed size pages keyed by page id.
 * This is the only view of the disk which buffer pool manager has.
 */
type PageFile interface {
	// ReadPage returns a copy of the page. fails if the page does not exist in the file.
	ReadPage(types.PageID) (*page.Page, error)
	// WritePage writes the page to the slot identified by its page id
	WritePage(*page.Page) error
	// AllocatePage creates a new page and returns it. returned page is zero filled.
	AllocatePage() (*page.Page, error)
	// DeletePage releases the slot of the page. deleting deleted page is a no-op.
	DeletePage(types.PageID) error
	// Filename is identity of the file
	Filename() string
}

// DiskPageFile is PageFile with management methods used by owner of the file
type DiskPageFile interface {
	PageFile
	GetNumWrites() uint64
	GetNumReads() uint64
	// NumPages returns the number of slots including deleted ones
	NumPages() int32
	Size() int64
	ShutDown() error
	// ATTENTION: this method can be call after calling of Shutdown method
	RemoveFile() error
}
