package buffer

import (
	"fmt"

	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/storage/disk"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

// BufDesc is book-keeping information of a frame.
// index of BufDesc in the descriptor table equals to frameNo.
type BufDesc struct {
	file    disk.PageFile
	pageNo  types.PageID
	frameNo FrameID
	pinCnt  int32
	dirty   bool
	valid   bool
	refbit  bool
}

// BufDescInfo is a snapshot of BufDesc for diagnostics
type BufDescInfo struct {
	Filename string
	PageNo   types.PageID
	FrameNo  FrameID
	PinCnt   int32
	Dirty    bool
	Valid    bool
	Refbit   bool
}

func newBufDesc(frameNo FrameID) BufDesc {
	return BufDesc{pageNo: types.InvalidPageID, frameNo: frameNo}
}

// Clear makes the frame unused. frameNo is kept.
func (d *BufDesc) Clear() {
	d.file = nil
	d.pageNo = types.InvalidPageID
	d.pinCnt = 0
	d.dirty = false
	d.valid = false
	d.refbit = false
}

// Set assigns the page to the frame. the page is pinned once.
func (d *BufDesc) Set(file disk.PageFile, pageNo types.PageID) {
	d.file = file
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.valid = true
	d.refbit = true
}

func (d *BufDesc) filename() string {
	if d.file == nil {
		return "NULL"
	}
	return d.file.Filename()
}

func (d *BufDesc) info() BufDescInfo {
	return BufDescInfo{
		Filename: d.filename(),
		PageNo:   d.pageNo,
		FrameNo:  d.frameNo,
		PinCnt:   d.pinCnt,
		Dirty:    d.dirty,
		Valid:    d.valid,
		Refbit:   d.refbit,
	}
}

func (d *BufDesc) String() string {
	return fmt.Sprintf("file:%s pageNo:%d frameNo:%d pinCnt:%d dirty:%v valid:%v refbit:%v",
		d.filename(), d.pageNo, d.frameNo, d.pinCnt, d.dirty, d.valid, d.refbit)
}

func (d *BufDesc) Print() {
	common.ShPrintf(common.INFO, "%s\n", d.String())
}
