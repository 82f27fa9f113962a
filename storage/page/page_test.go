// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"testing"

	"github.com/ryogrid/SamehadaBufMgr/common"
	testingpkg "github.com/ryogrid/SamehadaBufMgr/testing/testing_assert"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

func TestNewPage(t *testing.T) {
	p := New(types.PageID(0), &[common.PageSize]byte{})

	testingpkg.Equals(t, types.PageID(0), p.GetPageId())
	p.Copy(0, []byte{'H', 'E', 'L', 'L', 'O'})
	testingpkg.Equals(t, [common.PageSize]byte{'H', 'E', 'L', 'L', 'O'}, *p.Data())
	p.SetPageId(types.PageID(7))
	testingpkg.Equals(t, types.PageID(7), p.GetPageId())
}

func TestEmptyPage(t *testing.T) {
	p := NewEmpty(types.PageID(0))

	testingpkg.Equals(t, types.PageID(0), p.GetPageId())
	testingpkg.Equals(t, [common.PageSize]byte{}, *p.Data())
}

func TestPageOnBlock(t *testing.T) {
	block := make([]byte, common.PageSize)
	p := NewOnBlock(types.PageID(3), block)

	p.Copy(10, []byte("abc"))
	// payload shares memory with the block
	testingpkg.Equals(t, []byte("abc"), block[10:13])

	src := NewEmpty(types.PageID(5))
	src.Copy(0, []byte("xyz"))
	p.CopyFrom(src)
	testingpkg.Equals(t, types.PageID(5), p.GetPageId())
	testingpkg.Equals(t, []byte("xyz"), block[0:3])
	testingpkg.Equals(t, byte(0), block[10])

	p.Clear()
	testingpkg.Equals(t, [common.PageSize]byte{}, *p.Data())
}

func TestPageLatch(t *testing.T) {
	p := NewEmpty(types.PageID(1))
	p.RLatch()
	p.RLatch()
	p.RUnlatch()
	p.RUnlatch()
	p.WLatch()
	p.Copy(0, []byte{1})
	p.WUnlatch()
	testingpkg.Equals(t, byte(1), p.Data()[0])
}
