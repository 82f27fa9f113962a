// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"
	"strings"

	"github.com/devlights/gomy/output"
	"github.com/ncw/directio"
	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/storage/disk"
	"github.com/ryogrid/SamehadaBufMgr/storage/page"
	"github.com/ryogrid/SamehadaBufMgr/types"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

// BufferPoolManager represents the buffer pool manager
type BufferPoolManager struct {
	numBufs      uint32
	bufPool      []*page.Page // index is FrameID
	bufDescTable []BufDesc    // index is FrameID
	hashTable    *BufHashTable
	replacer     *ClockReplacer
	bufStats     BufStats
	flushOnClose bool
	isClosed     bool
	// every public method takes this latch in write mode
	mutex common.ReaderWriterLatch
}

// NewBufferPoolManager returns a empty buffer pool manager which has numBufs frames
func NewBufferPoolManager(numBufs uint32) (*BufferPoolManager, error) {
	if numBufs == 0 {
		return nil, ErrInvalidPoolSize
	}

	// frames are carved from one aligned block
	arena := directio.AlignedBlock(int(numBufs) * common.PageSize)
	bufPool := make([]*page.Page, numBufs)
	bufDescTable := make([]BufDesc, numBufs)
	for ii := uint32(0); ii < numBufs; ii++ {
		offset := int(ii) * common.PageSize
		bufPool[ii] = page.NewOnBlock(types.InvalidPageID, arena[offset:offset+common.PageSize])
		bufDescTable[ii] = newBufDesc(FrameID(ii))
	}

	b := &BufferPoolManager{
		numBufs:      numBufs,
		bufPool:      bufPool,
		bufDescTable: bufDescTable,
		hashTable:    NewBufHashTable(hashTableSize(numBufs)),
		flushOnClose: true,
		mutex:        common.NewRWLatch(),
	}
	b.replacer = NewClockReplacer(b.bufDescTable, b.writeBackFrame)
	return b, nil
}

// caller must have mutex
func (b *BufferPoolManager) writeBackFrame(frameNo FrameID) error {
	desc := &b.bufDescTable[frameNo]
	pg := b.bufPool[frameNo]

	pg.RLatch()
	err := desc.file.WritePage(pg)
	pg.RUnlatch()
	if err != nil {
		return errors.Wrapf(err, "write back of page %d of %s (frame %d) failed", desc.pageNo, desc.filename(), frameNo)
	}

	desc.dirty = false
	b.bufStats.DiskWrites++
	if common.EnableDebug {
		common.ShPrintf(common.BUFFER_INTERNAL, "writeBackFrame: frame=%d file=%s pageNo=%d\n", frameNo, desc.filename(), desc.pageNo)
	}
	return nil
}

// evictFrame removes the page held by the frame from hash table and clears the descriptor.
// caller must have mutex
func (b *BufferPoolManager) evictFrame(frameNo FrameID) error {
	desc := &b.bufDescTable[frameNo]
	if !desc.valid {
		return nil
	}
	if err := b.hashTable.Remove(desc.file, desc.pageNo); err != nil {
		common.ShPrintf(common.ERROR, "evictFrame: %v\n", err)
		return &BadBufferError{frameNo, desc.dirty, desc.valid, desc.refbit}
	}
	if common.EnableDebug {
		common.ShPrintf(common.BUFFER_INTERNAL, "evictFrame: cache out. frame=%d file=%s pageNo=%d\n", frameNo, desc.filename(), desc.pageNo)
	}
	desc.Clear()
	b.bufPool[frameNo].SetPageId(types.InvalidPageID)
	return nil
}

// ReadPage returns the page pinned. page is read from file when it is not on buffer pool.
// caller must call UnpinPage when the page is not needed anymore.
func (b *BufferPoolManager) ReadPage(file disk.PageFile, pageNo types.PageID) (*page.Page, error) {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return nil, ErrBufMgrClosed
	}
	b.bufStats.Accesses++

	// if it is on buffer pool return it
	if frameNo, ok := b.hashTable.Lookup(file, pageNo); ok {
		desc := &b.bufDescTable[frameNo]
		desc.refbit = true
		desc.pinCnt++
		if common.EnableDebug {
			common.ShPrintf(common.DEBUG_INFO, "ReadPage: hit. file=%s pageNo=%d frame=%d pinCnt=%d\n", file.Filename(), pageNo, frameNo, desc.pinCnt)
		}
		return b.bufPool[frameNo], nil
	}

	pg, err := file.ReadPage(pageNo)
	if err != nil {
		return nil, errors.Wrapf(err, "read of page %d of %s failed", pageNo, file.Filename())
	}
	frameNo, err := b.replacer.Victim()
	if err != nil {
		return nil, err
	}
	if err = b.evictFrame(frameNo); err != nil {
		return nil, err
	}

	b.bufPool[frameNo].CopyFrom(pg)
	if err = b.hashTable.Insert(file, pageNo, frameNo); err != nil {
		return nil, err
	}
	b.bufDescTable[frameNo].Set(file, pageNo)
	b.bufStats.DiskReads++

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "ReadPage: cache in. file=%s pageNo=%d frame=%d\n", file.Filename(), pageNo, frameNo)
	}
	return b.bufPool[frameNo], nil
}

// UnpinPage decrements pin count of the page. isDirty=true marks the page dirty
// and the mark is kept until the page is written back.
// unpinning a page which is not on buffer pool does nothing.
func (b *BufferPoolManager) UnpinPage(file disk.PageFile, pageNo types.PageID, isDirty bool) error {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return ErrBufMgrClosed
	}

	frameNo, ok := b.hashTable.Lookup(file, pageNo)
	if !ok {
		common.ShPrintf(common.WARN, "UnpinPage: page is not on buffer pool. file=%s pageNo=%d\n", file.Filename(), pageNo)
		return nil
	}

	desc := &b.bufDescTable[frameNo]
	if desc.pinCnt <= 0 {
		return &PageNotPinnedError{file.Filename(), pageNo, frameNo}
	}
	desc.pinCnt--
	if isDirty {
		desc.dirty = true
	}

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "UnpinPage: file=%s pageNo=%d pinCnt=%d dirty=%v\n", file.Filename(), pageNo, desc.pinCnt, desc.dirty)
	}
	return nil
}

// AllocatePage allocates a new page in the file and places it on buffer pool pinned.
// content of the returned page is zero filled.
func (b *BufferPoolManager) AllocatePage(file disk.PageFile) (types.PageID, *page.Page, error) {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return types.InvalidPageID, nil, ErrBufMgrClosed
	}
	b.bufStats.Accesses++

	pg, err := file.AllocatePage()
	if err != nil {
		return types.InvalidPageID, nil, errors.Wrapf(err, "allocation of page in %s failed", file.Filename())
	}
	pageNo := pg.GetPageId()

	frameNo, err := b.replacer.Victim()
	if err != nil {
		// the page can't be used. give it back to the file.
		if derr := file.DeletePage(pageNo); derr != nil {
			common.ShPrintf(common.WARN, "AllocatePage: release of page %d of %s failed: %v\n", pageNo, file.Filename(), derr)
		}
		return types.InvalidPageID, nil, err
	}
	if err = b.evictFrame(frameNo); err != nil {
		return types.InvalidPageID, nil, err
	}

	if err = b.hashTable.Insert(file, pageNo, frameNo); err != nil {
		return types.InvalidPageID, nil, err
	}
	b.bufDescTable[frameNo].Set(file, pageNo)
	b.bufPool[frameNo].CopyFrom(pg)

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "AllocatePage: file=%s pageNo=%d frame=%d\n", file.Filename(), pageNo, frameNo)
	}
	return pageNo, b.bufPool[frameNo], nil
}

// DisposePage deletes the page from buffer pool (when it is there) and from the file.
// the page is dropped from buffer pool even if it is pinned.
func (b *BufferPoolManager) DisposePage(file disk.PageFile, pageNo types.PageID) error {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return ErrBufMgrClosed
	}

	if frameNo, ok := b.hashTable.Lookup(file, pageNo); ok {
		desc := &b.bufDescTable[frameNo]
		if desc.pinCnt > 0 {
			common.ShPrintf(common.WARN, "DisposePage: pinned page is disposed. file=%s pageNo=%d pinCnt=%d\n", file.Filename(), pageNo, desc.pinCnt)
		}
		if err := b.evictFrame(frameNo); err != nil {
			return err
		}
	}

	if err := file.DeletePage(pageNo); err != nil {
		return errors.Wrapf(err, "delete of page %d of %s failed", pageNo, file.Filename())
	}
	return nil
}

// FlushFile writes back dirty pages of the file and drops every page of the file from buffer pool.
// fails when a page of the file is pinned. frames processed before the pinned one stay flushed.
func (b *BufferPoolManager) FlushFile(file disk.PageFile) error {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return ErrBufMgrClosed
	}

	filename := file.Filename()
	for ii := range b.bufDescTable {
		desc := &b.bufDescTable[ii]
		frameNo := FrameID(ii)
		if !desc.valid || desc.file.Filename() != filename {
			continue
		}
		if desc.pinCnt > 0 {
			return &PagePinnedError{filename, desc.pageNo, frameNo}
		}
		if desc.dirty {
			if err := b.writeBackFrame(frameNo); err != nil {
				return err
			}
		}
		if err := b.evictFrame(frameNo); err != nil {
			return err
		}
	}
	return nil
}

// FlushPage writes back the page when it is dirty. the page stays on buffer pool.
// returns false when the page is not on buffer pool.
// caller must not hold latch of the page.
func (b *BufferPoolManager) FlushPage(file disk.PageFile, pageNo types.PageID) (bool, error) {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return false, ErrBufMgrClosed
	}

	frameNo, ok := b.hashTable.Lookup(file, pageNo)
	if !ok {
		return false, nil
	}
	if b.bufDescTable[frameNo].dirty {
		if err := b.writeBackFrame(frameNo); err != nil {
			return true, err
		}
	}
	return true, nil
}

// caller must have mutex
func (b *BufferPoolManager) flushAllPages() error {
	var errs error
	for ii := range b.bufDescTable {
		desc := &b.bufDescTable[ii]
		if desc.valid && desc.dirty {
			errs = multierr.Append(errs, b.writeBackFrame(FrameID(ii)))
		}
	}
	return errs
}

// FlushAllPages writes back every dirty page. pages stay on buffer pool.
// write back is tried for all pages even if some of them fail.
func (b *BufferPoolManager) FlushAllPages() error {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return ErrBufMgrClosed
	}
	return b.flushAllPages()
}

// SetFlushOnClose decides whether Close writes back dirty pages (default: true)
func (b *BufferPoolManager) SetFlushOnClose(flushOnClose bool) {
	b.mutex.WLock()
	defer b.mutex.WUnlock()
	b.flushOnClose = flushOnClose
}

// Close writes back dirty pages and invalidates every frame.
// calls of methods which access pages fail with ErrBufMgrClosed after this.
func (b *BufferPoolManager) Close() error {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	if b.isClosed {
		return ErrBufMgrClosed
	}

	var errs error
	if b.flushOnClose {
		errs = b.flushAllPages()
	}

	for ii := range b.bufDescTable {
		desc := &b.bufDescTable[ii]
		if !desc.valid {
			continue
		}
		if desc.pinCnt > 0 {
			common.ShPrintf(common.WARN, "Close: page is still pinned. file=%s pageNo=%d pinCnt=%d\n", desc.filename(), desc.pageNo, desc.pinCnt)
		}
		if desc.dirty {
			common.ShPrintf(common.WARN, "Close: dirty page is dropped. file=%s pageNo=%d\n", desc.filename(), desc.pageNo)
		}
		errs = multierr.Append(errs, b.evictFrame(FrameID(ii)))
	}

	b.isClosed = true
	return errs
}

// GetPoolSize returns the number of frames
func (b *BufferPoolManager) GetPoolSize() uint32 {
	return b.numBufs
}

// NumValidFrames returns the number of frames which hold a page
func (b *BufferPoolManager) NumValidFrames() int {
	b.mutex.WLock()
	defer b.mutex.WUnlock()
	return b.numValidFrames()
}

func (b *BufferPoolManager) numValidFrames() int {
	ret := 0
	for ii := range b.bufDescTable {
		if b.bufDescTable[ii].valid {
			ret++
		}
	}
	return ret
}

// GetBufDescs returns snapshot of descriptor table
func (b *BufferPoolManager) GetBufDescs() []BufDescInfo {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	ret := make([]BufDescInfo, 0, b.numBufs)
	for ii := range b.bufDescTable {
		ret = append(ret, b.bufDescTable[ii].info())
	}
	return ret
}

func (b *BufferPoolManager) GetBufStats() BufStats {
	b.mutex.WLock()
	defer b.mutex.WUnlock()
	return b.bufStats
}

func (b *BufferPoolManager) ClearBufStats() {
	b.mutex.WLock()
	defer b.mutex.WUnlock()
	b.bufStats.Clear()
}

// PrintSelf prints every descriptor and the number of valid frames
func (b *BufferPoolManager) PrintSelf() {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	for ii := range b.bufDescTable {
		b.bufDescTable[ii].Print()
	}
	common.ShPrintf(common.INFO, "Total Number of Valid Frames:%d %s\n", b.numValidFrames(), b.replacer)
}

// PrintBufferUsageState prints pinned pages as (file,pageNo,pinCnt) sorted by file and page no
func (b *BufferPoolManager) PrintBufferUsageState(callerAdditionalInfo string) {
	b.mutex.WLock()
	defer b.mutex.WUnlock()

	var pinned []BufDescInfo
	for ii := range b.bufDescTable {
		desc := &b.bufDescTable[ii]
		if desc.valid && desc.pinCnt > 0 {
			pinned = append(pinned, desc.info())
		}
	}
	slices.SortFunc(pinned, func(l, r BufDescInfo) int {
		if c := strings.Compare(l.Filename, r.Filename); c != 0 {
			return c
		}
		return int(l.PageNo) - int(r.PageNo)
	})

	var sb strings.Builder
	for _, info := range pinned {
		sb.WriteString(fmt.Sprintf("(%s,%d,%d)-", info.Filename, info.PageNo, info.PinCnt))
	}
	output.Stdoutl("BPM::PrintBufferUsageState "+callerAdditionalInfo, sb.String(), b.bufStats.String())
}
