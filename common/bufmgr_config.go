package common

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// BufMgrConfig is runtime configuration of buffer pool manager and page files.
// it is read from "buffer" section (table) of .toml or .ini file.
//
//	[buffer]
//	pool_size = 1024
//	db_dir = "./data"
//	on_memory = false
//	log_level = "info"
//	flush_on_close = true
type BufMgrConfig struct {
	PoolSize     uint32
	DBDir        string
	OnMemory     bool
	LogLevel     string
	FlushOnClose bool
}

func DefaultBufMgrConfig() *BufMgrConfig {
	return &BufMgrConfig{
		PoolSize:     DefaultBufferPoolFrameNum,
		DBDir:        ".",
		OnMemory:     EnableOnMemStorage,
		LogLevel:     "info",
		FlushOnClose: true,
	}
}

// LoadBufMgrConfig reads config file. format is decided by extension.
// keys which are not written in the file keep default values.
func LoadBufMgrConfig(path string) (*BufMgrConfig, error) {
	cfg := DefaultBufMgrConfig()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = cfg.loadToml(path)
	case ".ini", ".cnf", ".conf":
		err = cfg.loadIni(path)
	default:
		return nil, errors.Errorf("unsupported config file format: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *BufMgrConfig) loadToml(path string) error {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}

	if v, ok := tree.Get("buffer.pool_size").(int64); ok {
		if v <= 0 || v > math.MaxUint32 {
			return errors.Errorf("buffer.pool_size is out of range: %d", v)
		}
		c.PoolSize = uint32(v)
	}
	if v, ok := tree.Get("buffer.db_dir").(string); ok {
		c.DBDir = v
	}
	if v, ok := tree.Get("buffer.on_memory").(bool); ok {
		c.OnMemory = v
	}
	if v, ok := tree.Get("buffer.log_level").(string); ok {
		c.LogLevel = v
	}
	if v, ok := tree.Get("buffer.flush_on_close").(bool); ok {
		c.FlushOnClose = v
	}
	return nil
}

func (c *BufMgrConfig) loadIni(path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}

	sec := file.Section("buffer")
	if sec.HasKey("pool_size") {
		v, err := sec.Key("pool_size").Uint64()
		if err != nil {
			return errors.Wrapf(err, "buffer.pool_size of %s", path)
		}
		if v > math.MaxUint32 {
			return errors.Errorf("buffer.pool_size is out of range: %d", v)
		}
		c.PoolSize = uint32(v)
	}
	c.DBDir = sec.Key("db_dir").MustString(c.DBDir)
	c.OnMemory = sec.Key("on_memory").MustBool(c.OnMemory)
	c.LogLevel = sec.Key("log_level").MustString(c.LogLevel)
	c.FlushOnClose = sec.Key("flush_on_close").MustBool(c.FlushOnClose)
	return nil
}

func (c *BufMgrConfig) Validate() error {
	if c.PoolSize == 0 {
		return errors.Errorf("pool size must be positive")
	}
	if _, ok := ParseLogLevel(c.LogLevel); !ok {
		return errors.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// ApplyLogLevel sets LogLevelSetting according to LogLevel field
func (c *BufMgrConfig) ApplyLogLevel() {
	if lv, ok := ParseLogLevel(c.LogLevel); ok {
		LogLevelSetting = lv
	}
}
