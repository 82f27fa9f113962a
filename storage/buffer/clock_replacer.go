// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"

	"github.com/ryogrid/SamehadaBufMgr/common"
)

// FrameID is the type for frame id
type FrameID uint32

// ClockReplacer represents the clock (second chance) replacement algorithm.
// it scans descriptor table of buffer pool manager as a circular array.
type ClockReplacer struct {
	numBufs      uint32
	clockHand    FrameID
	bufDescTable []BufDesc
	// writes back the dirty frame and clears its dirty bit
	writeBack func(FrameID) error
}

// NewClockReplacer instantiates a new clock replacer over bufDescTable
func NewClockReplacer(bufDescTable []BufDesc, writeBack func(FrameID) error) *ClockReplacer {
	numBufs := uint32(len(bufDescTable))
	common.SH_Assert(numBufs > 0, "NewClockReplacer: descriptor table is empty")
	// first advance moves the hand to frame 0
	return &ClockReplacer{numBufs, FrameID(numBufs - 1), bufDescTable, writeBack}
}

func (c *ClockReplacer) advanceClock() {
	c.clockHand = (c.clockHand + 1) % FrameID(c.numBufs)
}

func (c *ClockReplacer) isAllPinned() bool {
	for ii := range c.bufDescTable {
		desc := &c.bufDescTable[ii]
		if !desc.valid || desc.pinCnt <= 0 {
			return false
		}
	}
	return true
}

// Victim selects a frame to be reused.
// returned frame is invalid or holds an unpinned clean page (dirty one is written back here).
// descriptor of the frame is not cleared. caller must remove the old mapping.
func (c *ClockReplacer) Victim() (FrameID, error) {
	if c.isAllPinned() {
		return 0, &BufferExceededError{c.numBufs}
	}

	// consecutive pinned frames
	pinned := uint32(0)
	// frames whose refbit was cleared by this call
	var cleared []FrameID
	for {
		c.advanceClock()
		desc := &c.bufDescTable[c.clockHand]

		if !desc.valid {
			return c.clockHand, nil
		}
		if desc.refbit {
			desc.refbit = false
			cleared = append(cleared, c.clockHand)
			pinned = 0
			continue
		}
		if desc.pinCnt > 0 {
			pinned++
			if pinned >= c.numBufs {
				return 0, &BufferExceededError{c.numBufs}
			}
			continue
		}
		if desc.dirty {
			if err := c.writeBack(c.clockHand); err != nil {
				// failed call gives no second chance away
				for _, frameNo := range cleared {
					c.bufDescTable[frameNo].refbit = true
				}
				return 0, err
			}
		}
		if common.EnableDebug {
			common.ShPrintf(common.BUFFER_INTERNAL, "Victim: frame=%d file=%s pageNo=%d\n", c.clockHand, desc.filename(), desc.pageNo)
		}
		return c.clockHand, nil
	}
}

// Size returns the number of frames which can be victimized
func (c *ClockReplacer) Size() uint32 {
	ret := uint32(0)
	for ii := range c.bufDescTable {
		desc := &c.bufDescTable[ii]
		if !desc.valid || desc.pinCnt <= 0 {
			ret++
		}
	}
	return ret
}

func (c *ClockReplacer) String() string {
	return fmt.Sprintf("ClockReplacer{numBufs:%d clockHand:%d victimizable:%d}", c.numBufs, c.clockHand, c.Size())
}
