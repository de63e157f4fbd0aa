package logging

import (
	"runtime"
	"strings"
	"sync"
)

const (
	maximumCallerDepth = 25
	knownCallerDepth   = 4
)

var (
	callerInitOnce     sync.Once
	loggingPackageName string
)

// getCaller returns the first caller frame outside of this package and logrus,
// so log lines point at the call site and not at the wrapper.
func getCaller() *runtime.Frame {
	callerInitOnce.Do(func() {
		pcs := make([]uintptr, 1)
		runtime.Callers(0, pcs)
		fn := runtime.FuncForPC(pcs[0])
		loggingPackageName = packageName(fn.Name())
	})

	pcs := make([]uintptr, maximumCallerDepth)
	depth := runtime.Callers(knownCallerDepth, pcs)
	frames := runtime.CallersFrames(pcs[:depth])
	for f, again := frames.Next(); again; f, again = frames.Next() {
		pkg := packageName(f.Function)
		if pkg != loggingPackageName && !strings.Contains(pkg, "sirupsen/logrus") {
			return &f //nolint:scopelint
		}
	}
	return nil
}

func packageName(funcName string) string {
	lastSlash := strings.LastIndexByte(funcName, '/')
	firstDot := strings.IndexByte(funcName[lastSlash+1:], '.') + lastSlash + 1
	return funcName[:firstDot]
}
