package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ryogrid/SamehadaBufMgr/common"
	"github.com/ryogrid/SamehadaBufMgr/samehada"
	"github.com/ryogrid/SamehadaBufMgr/types"
)

// SamehadaBufMgr is used as an embedded library.
// so, this entry point is used for running a workload and dumping buffer state for debugging now...
func main() {
	configPath := flag.String("config", "", "path of .toml or .ini config file")
	numPages := flag.Int("pages", 64, "number of pages the workload allocates")
	flag.Parse()

	if err := run(*configPath, *numPages); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, numPages int) error {
	cfg := common.DefaultBufMgrConfig()
	if configPath != "" {
		var err error
		if cfg, err = common.LoadBufMgrConfig(configPath); err != nil {
			return err
		}
	}

	shi, err := samehada.NewSamehadaBufMgrInstance(cfg)
	if err != nil {
		return err
	}
	defer shi.Shutdown()
	bpm := shi.GetBufferPoolManager()

	file, err := shi.OpenFile("debug")
	if err != nil {
		return err
	}

	// write pass
	for ii := 0; ii < numPages; ii++ {
		pageNo, pg, err := bpm.AllocatePage(file)
		if err != nil {
			return err
		}
		pg.WLatch()
		pg.Copy(0, []byte(fmt.Sprintf("page %d", pageNo)))
		pg.WUnlatch()
		if err = bpm.UnpinPage(file, pageNo, true); err != nil {
			return err
		}
	}

	// read pass. pages are touched twice for making hits.
	for round := 0; round < 2; round++ {
		for ii := 0; ii < numPages; ii++ {
			pageNo := types.PageID(ii)
			if _, err = bpm.ReadPage(file, pageNo); err != nil {
				return err
			}
			if err = bpm.UnpinPage(file, pageNo, false); err != nil {
				return err
			}
		}
	}

	bpm.PrintBufferUsageState("main")
	if common.EnableDebug {
		bpm.PrintSelf()
	}
	common.ShPrintf(common.INFO, "%s\n", bpm.GetBufStats())
	common.ShPrintf(common.INFO, "file=%s pages=%d reads=%d writes=%d\n", file.Filename(), file.NumPages(), file.GetNumReads(), file.GetNumWrites())

	return shi.Shutdown()
}
