package common

import (
	"strings"
	"testing"

	testingpkg "github.com/ryogrid/SamehadaBufMgr/testing/testing_assert"
)

func TestSHAssert(t *testing.T) {
	// passes through
	SH_Assert(true, "never")

	saved := dumpStackOnAssert
	dumpStackOnAssert = true
	defer func() { dumpStackOnAssert = saved }()

	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		SH_Assert(false, "frame table is broken")
	}()
	testingpkg.Equals(t, "frame table is broken", recovered)
}

func TestRuntimeStack(t *testing.T) {
	dump := string(RuntimeStack())
	testingpkg.SimpleAssert(t, strings.Contains(dump, "goroutine"))
	testingpkg.SimpleAssert(t, strings.Contains(dump, "TestRuntimeStack"))
}
