// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"

	"github.com/ryogrid/SamehadaBufMgr/common"
)

// PageFileTest is DiskPageFile for testing purposes. its file is removed at ShutDown.
type PageFileTest struct {
	path string
	DiskPageFile
}

// NewPageFileTest returns a DiskPageFile whose name is unique in the process
func NewPageFileTest() DiskPageFile {
	// Retrieve a temporary path.
	f, err := os.CreateTemp("", "samehada.")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	if !common.EnableOnMemStorage {
		pageFile, err := NewDiskPageFile(path)
		if err != nil {
			panic(err)
		}
		return &PageFileTest{path, pageFile}
	}
	return &PageFileTest{path, NewVirtualPageFile(path)}
}

// ShutDown closes the file and removes it
func (d *PageFileTest) ShutDown() error {
	err := d.DiskPageFile.ShutDown()
	if !common.EnableOnMemStorage {
		os.Remove(d.path)
	}
	return err
}
