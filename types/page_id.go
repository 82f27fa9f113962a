// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"encoding/binary"
)

// PageID is the type of the page identifier
type PageID int32

const SizeOfPageID = 4

// InvalidPageID represents an invalid page GetPageId
const InvalidPageID = PageID(-1)

// IsValid checks if id is valid
func (id PageID) IsValid() bool {
	return id != InvalidPageID && id >= 0
}

// Serialize casts it to []byte
func (id PageID) Serialize() []byte {
	buf := make([]byte, SizeOfPageID)
	binary.LittleEndian.PutUint32(buf, uint32(id))
	return buf
}

// NewPageIDFromBytes creates a page id from []byte
func NewPageIDFromBytes(data []byte) (ret PageID) {
	return PageID(int32(binary.LittleEndian.Uint32(data[:SizeOfPageID])))
}
