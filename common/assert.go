package common

import (
	"runtime"

	"github.com/devlights/gomy/output"
)

// SH_Assert panics with msg when condition is false.
// stacks of all goroutines are dumped before the panic when EnableDebug is true or dumpStackOnAssert is set.
func SH_Assert(condition bool, msg string) {
	if !condition {
		if EnableDebug || dumpStackOnAssert {
			RuntimeStack()
		}
		panic(msg)
	}
}

// tests turn this on for covering stack dump path
var dumpStackOnAssert = false

// RuntimeStack prints stacks of all goroutines and returns the dump
//   - https://pkg.go.dev/runtime#Stack
func RuntimeStack() []byte {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}

	output.Stdoutl("=== stack-all   ", string(buf))
	return buf
}
