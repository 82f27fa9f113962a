package buffer

import (
	"errors"
	"testing"

	"github.com/ryogrid/SamehadaBufMgr/storage/disk"
	testingpkg "github.com/ryogrid/SamehadaBufMgr/testing/testing_assert"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

func TestBufHashTable(t *testing.T) {
	ht := NewBufHashTable(hashTableSize(10))
	testingpkg.Equals(t, uint32(13), ht.htSize)

	f1 := disk.NewVirtualPageFile("f1.db")
	f2 := disk.NewVirtualPageFile("f2.db")

	// more entries than buckets. chains are used.
	for ii := 0; ii < 30; ii++ {
		testingpkg.Ok(t, ht.Insert(f1, types.PageID(ii), FrameID(ii)))
		testingpkg.Ok(t, ht.Insert(f2, types.PageID(ii), FrameID(100+ii)))
	}
	testingpkg.Equals(t, 60, ht.Len())

	for ii := 0; ii < 30; ii++ {
		frameNo, ok := ht.Lookup(f1, types.PageID(ii))
		testingpkg.SimpleAssert(t, ok)
		testingpkg.Equals(t, FrameID(ii), frameNo)
		frameNo, ok = ht.Lookup(f2, types.PageID(ii))
		testingpkg.SimpleAssert(t, ok)
		testingpkg.Equals(t, FrameID(100+ii), frameNo)
	}

	_, ok := ht.Lookup(f1, 30)
	testingpkg.SimpleAssert(t, !ok)

	// duplicate key keeps the first mapping
	err := ht.Insert(f1, 5, 77)
	testingpkg.ErrorIs(t, err, ErrHashAlreadyPresent)
	var dupErr *HashAlreadyPresentError
	testingpkg.SimpleAssert(t, errors.As(err, &dupErr))
	testingpkg.Equals(t, FrameID(5), dupErr.FrameNo)

	for ii := 0; ii < 30; ii += 2 {
		testingpkg.Ok(t, ht.Remove(f1, types.PageID(ii)))
	}
	testingpkg.Equals(t, 45, ht.Len())
	testingpkg.ErrorIs(t, ht.Remove(f1, 0), ErrHashNotFound)

	for ii := 0; ii < 30; ii++ {
		_, ok = ht.Lookup(f1, types.PageID(ii))
		testingpkg.Equals(t, ii%2 == 1, ok)
		_, ok = ht.Lookup(f2, types.PageID(ii))
		testingpkg.SimpleAssert(t, ok)
	}
}
