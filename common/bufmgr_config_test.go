package common

import (
	"os"
	"path/filepath"
	"testing"

	testingpkg "github.com/ryogrid/SamehadaBufMgr/testing/testing_assert"
)

func writeConfigFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	testingpkg.Ok(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestLoadTomlConfig(t *testing.T) {
	path := writeConfigFile(t, "bufmgr.toml", `
[buffer]
pool_size = 256
db_dir = "/var/lib/samehada"
on_memory = false
log_level = "debug"
`)
	cfg, err := LoadBufMgrConfig(path)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, uint32(256), cfg.PoolSize)
	testingpkg.Equals(t, "/var/lib/samehada", cfg.DBDir)
	testingpkg.SimpleAssert(t, !cfg.OnMemory)
	testingpkg.Equals(t, "debug", cfg.LogLevel)
	// not written in the file
	testingpkg.SimpleAssert(t, cfg.FlushOnClose)

	path = writeConfigFile(t, "zero.toml", "[buffer]\npool_size = 0\n")
	_, err = LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)
}

func TestLoadIniConfig(t *testing.T) {
	path := writeConfigFile(t, "bufmgr.ini", `
[buffer]
pool_size = 64
db_dir = ./data
flush_on_close = false
log_level = warn
`)
	cfg, err := LoadBufMgrConfig(path)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, uint32(64), cfg.PoolSize)
	testingpkg.Equals(t, "./data", cfg.DBDir)
	testingpkg.SimpleAssert(t, !cfg.FlushOnClose)
	testingpkg.Equals(t, EnableOnMemStorage, cfg.OnMemory)

	path = writeConfigFile(t, "badlevel.ini", "[buffer]\nlog_level = verbose\n")
	_, err = LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)
}

func TestLoadConfigUnsupportedFormat(t *testing.T) {
	path := writeConfigFile(t, "bufmgr.yaml", "buffer:\n  pool_size: 1\n")
	_, err := LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)

	_, err = LoadBufMgrConfig(filepath.Join(t.TempDir(), "missing.toml"))
	testingpkg.Nok(t, err)
}

func TestParseLogLevel(t *testing.T) {
	lv, ok := ParseLogLevel("INFO")
	testingpkg.SimpleAssert(t, ok)
	testingpkg.Equals(t, INFO|WARN|ERROR|FATAL, lv)

	lv, ok = ParseLogLevel(" error ")
	testingpkg.SimpleAssert(t, ok)
	testingpkg.Equals(t, ERROR|FATAL, lv)

	lv, ok = ParseLogLevel("trace")
	testingpkg.SimpleAssert(t, ok)
	testingpkg.SimpleAssert(t, lv&DEBUG_INFO_DETAIL > 0)

	_, ok = ParseLogLevel("verbose")
	testingpkg.SimpleAssert(t, !ok)
}

func TestApplyLogLevel(t *testing.T) {
	saved := LogLevelSetting
	defer func() { LogLevelSetting = saved }()

	cfg := DefaultBufMgrConfig()
	cfg.LogLevel = "error"
	cfg.ApplyLogLevel()
	testingpkg.Equals(t, ERROR|FATAL, LogLevelSetting)
}

func TestLoadConfigPoolSizeOverflow(t *testing.T) {
	path := writeConfigFile(t, "huge.toml", "[buffer]\npool_size = 4294967297\n")
	_, err := LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)

	path = writeConfigFile(t, "huge.ini", "[buffer]\npool_size = 4294967297\n")
	_, err = LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)

	path = writeConfigFile(t, "notnum.ini", "[buffer]\npool_size = many\n")
	_, err = LoadBufMgrConfig(path)
	testingpkg.Nok(t, err)

	// largest frame num still fits
	path = writeConfigFile(t, "max.ini", "[buffer]\npool_size = 4294967295\n")
	cfg, err := LoadBufMgrConfig(path)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, uint32(4294967295), cfg.PoolSize)
}
