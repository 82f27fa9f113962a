// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

/**
 * Page is the basic unit of storage within the database system. Page provides a wrapper for actual data pages being
 * held in main memory. Book-keeping information used by the buffer pool manager (pin count, dirty flag, reference bit)
 * is not held here but in the frame descriptor of the frame which stores the page.
 */

// Page represents an abstract page on disk
type Page struct {
	id      types.PageID           // idenfies the page. It is used to find the offset of the page on disk
	data    *[common.PageSize]byte // bytes stored in disk
	rwlatch common.ReaderWriterLatch
}

// GetPageId retunds the page id
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// SetPageId changes identity of the page. buffer pool manager uses this when a frame is reused.
func (p *Page) SetPageId(id types.PageID) {
	p.id = id
}

// Data returns the data of the page
func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// Copy copies data to the page's data
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

// CopyFrom overwrites identity and payload with src's ones
func (p *Page) CopyFrom(src *Page) {
	p.id = src.id
	*p.data = *src.data
}

// Clear zero-fills the payload
func (p *Page) Clear() {
	*p.data = [common.PageSize]byte{}
}

// New creates a new page
func New(id types.PageID, data *[common.PageSize]byte) *Page {
	return &Page{id, data, common.NewRWLatch()}
}

// NewEmpty creates a new empty page
func NewEmpty(id types.PageID) *Page {
	return &Page{id, &[common.PageSize]byte{}, common.NewRWLatch()}
}

// NewOnBlock creates a page whose payload is placed on block.
// block must be common.PageSize bytes at least.
func NewOnBlock(id types.PageID, block []byte) *Page {
	common.SH_Assert(len(block) >= common.PageSize, "NewOnBlock: block is smaller than page size")
	return &Page{id, (*[common.PageSize]byte)(block[:common.PageSize]), common.NewRWLatch()}
}

/** Acquire the page write latch. */
func (p *Page) WLatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "WLatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch.WLock()
}

/** Release the page write latch. */
func (p *Page) WUnlatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "WUnlatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch.WUnlock()
}

/** Acquire the page read latch. */
func (p *Page) RLatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "RLatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch.RLock()
}

/** Release the page read latch. */
func (p *Page) RUnlatch() {
	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "RUnlatch: pageId=%d\n", p.GetPageId())
	}
	p.rwlatch.RUnlock()
}
