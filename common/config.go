// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

const EnableDebug bool = false //true

// use on memory virtual storage or not
const EnableOnMemStorage = true

// when true, latches are backed by go-deadlock and report lock order violations
const EnableDeadlockDetection = false

const (
	// invalid page id
	InvalidPageID = -1
	// size of a data page in byte
	PageSize = 4096
	// frame num of buffer pool used by test cases
	BufferPoolMaxFrameNumForTest = 32
	// bucket num of page-identity hash table = int(frame num * HashTableSizeFactor) * 2 / 2 + 1
	HashTableSizeFactor = 1.2
	// default frame num when config file does not specify it
	DefaultBufferPoolFrameNum = 1024
)

var LogLevelSetting = INFO | WARN | ERROR | FATAL //| DEBUG_INFO | DEBUG_INFO_DETAIL
