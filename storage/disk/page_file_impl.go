// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"fmt"
	"io"
	"os"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dsnet/golib/memfile"
	"github.com/golang-collections/collections/queue"
	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/storage/page"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

type backingStore interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

// virtualStore is on memory backing store. content is lost when process exits.
type virtualStore struct {
	*memfile.File
}

func (v *virtualStore) Sync() error  { return nil }
func (v *virtualStore) Close() error { return nil }

// PageFileImpl is the implementation of DiskPageFile.
// a page is stored in the slot whose index equals to its page id.
type PageFileImpl struct {
	store      backingStore
	fileName   string
	isVirtual  bool
	nextPageID types.PageID
	// ids of deleted pages. these are reissued by AllocatePage in FIFO order
	deletedIDs  mapset.Set[types.PageID]
	reusableIDs *queue.Queue
	numWrites   uint64
	numReads    uint64
	size        int64
	isClosed    bool
	mutex       *sync.Mutex
}

// NewDiskPageFile opens (or creates) page file on disk
func NewDiskPageFile(fileName string) (DiskPageFile, error) {
	file, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open page file %s", fileName)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "file info error %s", fileName)
	}

	pf := newPageFileImpl(file, fileName, false)
	pf.size = fileInfo.Size()
	if err = pf.loadSlotHeaders(); err != nil {
		file.Close()
		return nil, err
	}
	return pf, nil
}

// NewVirtualPageFile creates empty page file on memory.
// fileName is used as identity only.
func NewVirtualPageFile(fileName string) DiskPageFile {
	return newPageFileImpl(&virtualStore{memfile.New(make([]byte, 0))}, fileName, true)
}

func newPageFileImpl(store backingStore, fileName string, isVirtual bool) *PageFileImpl {
	return &PageFileImpl{
		store:       store,
		fileName:    fileName,
		isVirtual:   isVirtual,
		nextPageID:  types.PageID(0),
		deletedIDs:  mapset.NewSet[types.PageID](),
		reusableIDs: queue.New(),
		mutex:       new(sync.Mutex),
	}
}

// loadSlotHeaders rebuilds next page id and deleted page ids from existing file
func (d *PageFileImpl) loadSlotHeaders() error {
	nPages := d.size / SlotSize
	if d.size%SlotSize != 0 {
		common.ShPrintf(common.WARN, "page file %s has a torn slot at the tail. size=%d\n", d.fileName, d.size)
	}

	header := make([]byte, SlotHeaderSize)
	for ii := int64(0); ii < nPages; ii++ {
		pageID := types.PageID(ii)
		if _, err := d.store.ReadAt(header, slotOffset(pageID)); err != nil {
			return errors.Wrapf(err, "read slot header of page %d in %s", pageID, d.fileName)
		}
		h := decodeSlotHeader(header)
		if h.isDeleted() {
			d.deletedIDs.Add(pageID)
			d.reusableIDs.Enqueue(pageID)
		}
	}
	d.nextPageID = types.PageID(nPages)
	return nil
}

func (d *PageFileImpl) Filename() string {
	return d.fileName
}

// caller must have mutex
func (d *PageFileImpl) checkAccessible(pageID types.PageID) error {
	if d.isClosed {
		return ErrFileClosed
	}
	if !pageID.IsValid() || pageID >= d.nextPageID {
		return errors.Wrapf(ErrPageNotFound, "page %d of %s", pageID, d.fileName)
	}
	if d.deletedIDs.Contains(pageID) {
		return errors.Wrapf(ErrPageDeleted, "page %d of %s", pageID, d.fileName)
	}
	return nil
}

// caller must have mutex
func (d *PageFileImpl) writeSlot(pageID types.PageID, flags uint32, payload *[common.PageSize]byte) error {
	buf := make([]byte, SlotSize)
	encodeSlot(buf, pageID, flags, payload)

	offset := slotOffset(pageID)
	if _, err := d.store.WriteAt(buf, offset); err != nil {
		return errors.Wrapf(err, "write slot of page %d to %s", pageID, d.fileName)
	}
	if err := d.store.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", d.fileName)
	}

	if offset+SlotSize > d.size {
		d.size = offset + SlotSize
	}
	return nil
}

// ReadPage reads a page from the file
func (d *PageFileImpl) ReadPage(pageID types.PageID) (*page.Page, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkAccessible(pageID); err != nil {
		return nil, err
	}

	buf := make([]byte, SlotSize)
	if _, err := d.store.ReadAt(buf, slotOffset(pageID)); err != nil {
		return nil, errors.Wrapf(err, "I/O error while reading page %d of %s", pageID, d.fileName)
	}

	h := decodeSlotHeader(buf)
	if h.pageID != pageID {
		return nil, errors.Wrapf(ErrPageIDMismatch, "slot %d of %s holds page %d", pageID, d.fileName, h.pageID)
	}
	if h.isDeleted() {
		return nil, errors.Wrapf(ErrPageDeleted, "page %d of %s", pageID, d.fileName)
	}
	if payloadChecksum(buf[SlotHeaderSize:]) != h.checksum {
		return nil, errors.Wrapf(ErrChecksumMismatch, "page %d of %s", pageID, d.fileName)
	}

	var pageData [common.PageSize]byte
	copy(pageData[:], buf[SlotHeaderSize:])
	d.numReads++
	return page.New(pageID, &pageData), nil
}

// WritePage writes a page to the slot of its page id
func (d *PageFileImpl) WritePage(pg *page.Page) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	pageID := pg.GetPageId()
	if err := d.checkAccessible(pageID); err != nil {
		return err
	}

	if err := d.writeSlot(pageID, slotFlagAllocated, pg.Data()); err != nil {
		return err
	}
	d.numWrites++
	return nil
}

// AllocatePage allocates a new page. slot of deleted page is reused first.
func (d *PageFileImpl) AllocatePage() (*page.Page, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isClosed {
		return nil, ErrFileClosed
	}

	var pageID types.PageID
	isReuse := d.reusableIDs.Len() > 0
	if isReuse {
		pageID = d.reusableIDs.Peek().(types.PageID)
	} else {
		pageID = d.nextPageID
	}

	pg := page.NewEmpty(pageID)
	// written immediately for making the page readable before its first write back
	if err := d.writeSlot(pageID, slotFlagAllocated, pg.Data()); err != nil {
		return nil, err
	}

	if isReuse {
		d.reusableIDs.Dequeue()
		d.deletedIDs.Remove(pageID)
	} else {
		d.nextPageID++
	}

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO, "AllocatePage: file=%s pageId=%d reuse=%v\n", d.fileName, pageID, isReuse)
	}
	return pg, nil
}

// DeletePage marks slot of the page as deleted
func (d *PageFileImpl) DeletePage(pageID types.PageID) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isClosed {
		return ErrFileClosed
	}
	if !pageID.IsValid() || pageID >= d.nextPageID {
		return errors.Wrapf(ErrPageNotFound, "page %d of %s", pageID, d.fileName)
	}
	if d.deletedIDs.Contains(pageID) {
		return nil
	}

	if err := d.writeSlot(pageID, slotFlagDeleted, &[common.PageSize]byte{}); err != nil {
		return err
	}
	d.deletedIDs.Add(pageID)
	d.reusableIDs.Enqueue(pageID)
	return nil
}

// GetNumWrites returns the number of page writes (WritePage calls)
func (d *PageFileImpl) GetNumWrites() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.numWrites
}

// GetNumReads returns the number of page reads
func (d *PageFileImpl) GetNumReads() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.numReads
}

func (d *PageFileImpl) NumPages() int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return int32(d.nextPageID)
}

// Size returns the size of the file
func (d *PageFileImpl) Size() int64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.size
}

// ShutDown closes the file. calling twice is allowed.
func (d *PageFileImpl) ShutDown() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isClosed {
		return nil
	}
	d.isClosed = true
	if err := d.store.Close(); err != nil {
		return errors.Wrapf(err, "close of page file %s failed", d.fileName)
	}
	return nil
}

// ATTENTION: this method can be call after calling of Shutdown method
func (d *PageFileImpl) RemoveFile() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isVirtual {
		return nil
	}
	if err := os.Remove(d.fileName); err != nil {
		return errors.Wrapf(err, "file remove failed %s", d.fileName)
	}
	return nil
}

func (d *PageFileImpl) String() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return fmt.Sprintf("PageFile{name:%s pages:%d deleted:%d}", d.fileName, d.nextPageID, d.deletedIDs.Cardinality())
}
