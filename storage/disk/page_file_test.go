package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/storage/page"
	testingpkg "github.com/ryogrid/SamehadaBufMgr/testing/testing_assert"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

func TestReadWritePage(t *testing.T) {
	pf := NewPageFileTest()
	defer pf.ShutDown()

	for i := 0; i < 6; i++ {
		pg, err := pf.AllocatePage()
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, types.PageID(i), pg.GetPageId())
	}

	// allocated page is readable and zero filled
	pg, err := pf.ReadPage(0)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, [common.PageSize]byte{}, *pg.Data())

	data := page.NewEmpty(0)
	data.Copy(0, []byte("A test string."))
	testingpkg.Ok(t, pf.WritePage(data))
	pg, err = pf.ReadPage(0)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, *data.Data(), *pg.Data())

	data = page.NewEmpty(5)
	data.Copy(0, []byte("Another test string."))
	testingpkg.Ok(t, pf.WritePage(data))
	pg, err = pf.ReadPage(5)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, *data.Data(), *pg.Data())

	// returned page is a copy
	pg.Copy(0, []byte("changed"))
	pg2, err := pf.ReadPage(5)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, *data.Data(), *pg2.Data())

	testingpkg.Equals(t, uint64(2), pf.GetNumWrites())
	testingpkg.Equals(t, uint64(4), pf.GetNumReads())
	testingpkg.Equals(t, int32(6), pf.NumPages())
	testingpkg.Equals(t, int64(6*SlotSize), pf.Size())
}

func TestReadPageErrors(t *testing.T) {
	pf := NewPageFileTest()
	defer pf.ShutDown()

	_, err := pf.ReadPage(0)
	testingpkg.ErrorIs(t, err, ErrPageNotFound)
	_, err = pf.ReadPage(types.InvalidPageID)
	testingpkg.ErrorIs(t, err, ErrPageNotFound)

	testingpkg.ErrorIs(t, pf.WritePage(page.NewEmpty(3)), ErrPageNotFound)
	testingpkg.ErrorIs(t, pf.DeletePage(3), ErrPageNotFound)
}

func TestDeleteAndReuse(t *testing.T) {
	pf := NewPageFileTest()
	defer pf.ShutDown()

	for i := 0; i < 3; i++ {
		_, err := pf.AllocatePage()
		testingpkg.Ok(t, err)
	}

	data := page.NewEmpty(1)
	data.Copy(0, []byte("will be deleted"))
	testingpkg.Ok(t, pf.WritePage(data))

	testingpkg.Ok(t, pf.DeletePage(1))
	// no-op-safe
	testingpkg.Ok(t, pf.DeletePage(1))

	_, err := pf.ReadPage(1)
	testingpkg.ErrorIs(t, err, ErrPageDeleted)
	testingpkg.ErrorIs(t, pf.WritePage(data), ErrPageDeleted)

	// deleted slot is reused and comes back zero filled
	pg, err := pf.AllocatePage()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.PageID(1), pg.GetPageId())
	pg, err = pf.ReadPage(1)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, [common.PageSize]byte{}, *pg.Data())

	pg, err = pf.AllocatePage()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.PageID(3), pg.GetPageId())
}

func TestShutDownRejectsAccess(t *testing.T) {
	pf := NewVirtualPageFile("closed.db")
	_, err := pf.AllocatePage()
	testingpkg.Ok(t, err)

	testingpkg.Ok(t, pf.ShutDown())
	testingpkg.Ok(t, pf.ShutDown())

	_, err = pf.ReadPage(0)
	testingpkg.ErrorIs(t, err, ErrFileClosed)
	_, err = pf.AllocatePage()
	testingpkg.ErrorIs(t, err, ErrFileClosed)
	testingpkg.ErrorIs(t, pf.DeletePage(0), ErrFileClosed)
}

func TestDiskPageFileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	pf, err := NewDiskPageFile(path)
	testingpkg.Ok(t, err)
	for i := 0; i < 4; i++ {
		_, err = pf.AllocatePage()
		testingpkg.Ok(t, err)
	}
	data := page.NewEmpty(2)
	data.Copy(100, []byte("persisted"))
	testingpkg.Ok(t, pf.WritePage(data))
	testingpkg.Ok(t, pf.DeletePage(0))
	testingpkg.Ok(t, pf.ShutDown())

	pf, err = NewDiskPageFile(path)
	testingpkg.Ok(t, err)
	defer pf.ShutDown()

	testingpkg.Equals(t, int32(4), pf.NumPages())
	pg, err := pf.ReadPage(2)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, *data.Data(), *pg.Data())

	_, err = pf.ReadPage(0)
	testingpkg.ErrorIs(t, err, ErrPageDeleted)

	// deleted slot found at reopen is reused
	pg, err = pf.AllocatePage()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.PageID(0), pg.GetPageId())
}

func TestDiskPageFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")

	pf, err := NewDiskPageFile(path)
	testingpkg.Ok(t, err)
	_, err = pf.AllocatePage()
	testingpkg.Ok(t, err)
	testingpkg.Ok(t, pf.ShutDown())

	// flip a payload byte behind the page file
	f, err := os.OpenFile(path, os.O_RDWR, 0666)
	testingpkg.Ok(t, err)
	_, err = f.WriteAt([]byte{0xff}, SlotHeaderSize+10)
	testingpkg.Ok(t, err)
	testingpkg.Ok(t, f.Close())

	pf, err = NewDiskPageFile(path)
	testingpkg.Ok(t, err)
	defer pf.ShutDown()

	_, err = pf.ReadPage(0)
	testingpkg.ErrorIs(t, err, ErrChecksumMismatch)

	testingpkg.Ok(t, pf.ShutDown())
	testingpkg.Ok(t, pf.RemoveFile())
	_, err = os.Stat(path)
	testingpkg.SimpleAssert(t, os.IsNotExist(err))
}
