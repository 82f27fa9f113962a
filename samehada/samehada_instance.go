package samehada

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/samehada/samehada_util"
	"github.com/ryogrid/SamehadaBufMgr/storage/buffer"
	"github.com/ryogrid/SamehadaBufMgr/storage/disk"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SamehadaBufMgrInstance owns a buffer pool manager and the page files opened through it
type SamehadaBufMgrInstance struct {
	cfg        *common.BufMgrConfig
	bpm        *buffer.BufferPoolManager
	files      map[string]disk.DiskPageFile // key is the name passed to OpenFile
	isShutdown bool
	mutex      *sync.Mutex
}

func NewSamehadaBufMgrInstanceForTesting() *SamehadaBufMgrInstance {
	cfg := common.DefaultBufMgrConfig()
	cfg.PoolSize = common.BufferPoolMaxFrameNumForTest
	cfg.OnMemory = true
	ret, err := NewSamehadaBufMgrInstance(cfg)
	if err != nil {
		panic(err)
	}
	return ret
}

// NewSamehadaBufMgrInstance creates buffer pool of cfg.PoolSize frames.
// nil cfg means default config.
func NewSamehadaBufMgrInstance(cfg *common.BufMgrConfig) (*SamehadaBufMgrInstance, error) {
	if cfg == nil {
		cfg = common.DefaultBufMgrConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyLogLevel()

	if !cfg.OnMemory {
		if err := os.MkdirAll(cfg.DBDir, 0755); err != nil {
			return nil, errors.Wrapf(err, "can't create db dir %s", cfg.DBDir)
		}
	}

	bpm, err := buffer.NewBufferPoolManager(cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	bpm.SetFlushOnClose(cfg.FlushOnClose)

	common.ShPrintf(common.INFO, "buffer pool started. frames=%d dbDir=%s onMemory=%v\n", cfg.PoolSize, cfg.DBDir, cfg.OnMemory)
	return &SamehadaBufMgrInstance{cfg, bpm, make(map[string]disk.DiskPageFile), false, new(sync.Mutex)}, nil
}

func (si *SamehadaBufMgrInstance) GetBufferPoolManager() *buffer.BufferPoolManager {
	return si.bpm
}

func (si *SamehadaBufMgrInstance) GetConfig() *common.BufMgrConfig {
	return si.cfg
}

// OpenFile opens page file which is named name under db dir.
// already opened file is returned when it is opened again.
func (si *SamehadaBufMgrInstance) OpenFile(name string) (disk.DiskPageFile, error) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	if si.isShutdown {
		return nil, buffer.ErrBufMgrClosed
	}
	if !samehada_util.IsValidFileName(name) {
		return nil, errors.Errorf("invalid page file name: %q", name)
	}
	if file, ok := si.files[name]; ok {
		return file, nil
	}

	path := samehada_util.PageFilePath(si.cfg.DBDir, name)
	var file disk.DiskPageFile
	if si.cfg.OnMemory {
		file = disk.NewVirtualPageFile(path)
	} else {
		isExisting := samehada_util.FileExists(path)
		var err error
		if file, err = disk.NewDiskPageFile(path); err != nil {
			return nil, err
		}
		if isExisting {
			common.ShPrintf(common.INFO, "page file %s is reopened. pages=%d\n", path, file.NumPages())
		}
	}

	si.files[name] = file
	return file, nil
}

// CloseFile writes back dirty pages of the file, drops them from buffer pool and closes the file
func (si *SamehadaBufMgrInstance) CloseFile(name string) error {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	file, ok := si.files[name]
	if !ok {
		return errors.Errorf("page file %s is not opened", name)
	}
	if err := si.bpm.FlushFile(file); err != nil {
		return err
	}
	delete(si.files, name)
	return file.ShutDown()
}

// GetOpenedFileNames returns names of opened files in sorted order
func (si *SamehadaBufMgrInstance) GetOpenedFileNames() []string {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	names := maps.Keys(si.files)
	slices.Sort(names)
	return names
}

// functionality is Flushing dirty pages (when FlushOnClose), closing buffer pool and shutdown of page files.
// calling twice is allowed.
func (si *SamehadaBufMgrInstance) Shutdown() error {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	if si.isShutdown {
		return nil
	}
	si.isShutdown = true

	errs := si.bpm.Close()

	names := maps.Keys(si.files)
	slices.Sort(names)
	for _, name := range names {
		errs = multierr.Append(errs, si.files[name].ShutDown())
	}
	si.files = make(map[string]disk.DiskPageFile)

	if errs != nil {
		common.ShPrintf(common.ERROR, "Shutdown: %v\n", errs)
	}
	return errs
}
