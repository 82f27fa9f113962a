package buffer

import (
	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/storage/disk"
	"github.com/ryogrid/SamehadaBufMgr/types"
	"github.com/spaolacci/murmur3"
)

// page file is identified by its file name
type bufHashKey struct {
	filename string
	pageNo   types.PageID
}

type hashBucket struct {
	key     bufHashKey
	frameNo FrameID
	next    *hashBucket
}

// BufHashTable maps (file, page no) to the frame which holds the page.
// collisions are chained in the bucket.
type BufHashTable struct {
	htSize  uint32
	table   []*hashBucket
	entries int
}

// hashTableSize returns bucket num for numBufs frames (always odd)
func hashTableSize(numBufs uint32) uint32 {
	return uint32(int(float64(numBufs)*common.HashTableSizeFactor)*2/2 + 1)
}

func NewBufHashTable(htSize uint32) *BufHashTable {
	common.SH_Assert(htSize > 0, "NewBufHashTable: size must be positive")
	return &BufHashTable{htSize: htSize, table: make([]*hashBucket, htSize)}
}

func (ht *BufHashTable) hash(key bufHashKey) uint32 {
	buf := make([]byte, 0, len(key.filename)+types.SizeOfPageID)
	buf = append(buf, key.filename...)
	buf = append(buf, key.pageNo.Serialize()...)
	return murmur3.Sum32(buf) % ht.htSize
}

// Insert adds new entry. fails when the key is already present.
func (ht *BufHashTable) Insert(file disk.PageFile, pageNo types.PageID, frameNo FrameID) error {
	key := bufHashKey{file.Filename(), pageNo}
	idx := ht.hash(key)

	for b := ht.table[idx]; b != nil; b = b.next {
		if b.key == key {
			return &HashAlreadyPresentError{key.filename, pageNo, b.frameNo}
		}
	}

	ht.table[idx] = &hashBucket{key, frameNo, ht.table[idx]}
	ht.entries++
	return nil
}

// Lookup returns frame no of the page. second return value is false if the page is not resident.
func (ht *BufHashTable) Lookup(file disk.PageFile, pageNo types.PageID) (FrameID, bool) {
	key := bufHashKey{file.Filename(), pageNo}
	for b := ht.table[ht.hash(key)]; b != nil; b = b.next {
		if b.key == key {
			return b.frameNo, true
		}
	}
	return 0, false
}

func (ht *BufHashTable) Remove(file disk.PageFile, pageNo types.PageID) error {
	key := bufHashKey{file.Filename(), pageNo}
	idx := ht.hash(key)

	var prev *hashBucket
	for b := ht.table[idx]; b != nil; prev, b = b, b.next {
		if b.key != key {
			continue
		}
		if prev == nil {
			ht.table[idx] = b.next
		} else {
			prev.next = b.next
		}
		ht.entries--
		return nil
	}
	return errors.Wrapf(ErrHashNotFound, "file:%s page:%d", key.filename, pageNo)
}

// Len returns the number of entries
func (ht *BufHashTable) Len() int {
	return ht.entries
}
