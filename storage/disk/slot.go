package disk

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

// slot layout
// | page id (4) | flags (4) | checksum of payload (8) | payload (common.PageSize) |
const (
	offsetSlotPageID   = 0
	offsetSlotFlags    = 4
	offsetSlotChecksum = 8
	SlotHeaderSize     = 16
	SlotSize           = SlotHeaderSize + common.PageSize
)

const (
	slotFlagAllocated uint32 = 1
	slotFlagDeleted   uint32 = 2
)

type slotHeader struct {
	pageID   types.PageID
	flags    uint32
	checksum uint64
}

func (h *slotHeader) isDeleted() bool {
	return h.flags&slotFlagDeleted > 0
}

func slotOffset(pageID types.PageID) int64 {
	return int64(pageID) * int64(SlotSize)
}

func payloadChecksum(payload []byte) uint64 {
	return xxhash.Checksum64(payload)
}

// encodeSlot fills buf (SlotSize bytes) with header and payload
func encodeSlot(buf []byte, pageID types.PageID, flags uint32, payload *[common.PageSize]byte) {
	binary.LittleEndian.PutUint32(buf[offsetSlotPageID:], uint32(pageID))
	binary.LittleEndian.PutUint32(buf[offsetSlotFlags:], flags)
	binary.LittleEndian.PutUint64(buf[offsetSlotChecksum:], payloadChecksum(payload[:]))
	copy(buf[SlotHeaderSize:], payload[:])
}

func decodeSlotHeader(buf []byte) slotHeader {
	return slotHeader{
		pageID:   types.PageID(int32(binary.LittleEndian.Uint32(buf[offsetSlotPageID:]))),
		flags:    binary.LittleEndian.Uint32(buf[offsetSlotFlags:]),
		checksum: binary.LittleEndian.Uint64(buf[offsetSlotChecksum:]),
	}
}
