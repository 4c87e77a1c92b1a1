//go:build debugger

package debugonly

import (
	"runtime"
)

// BreakHere stops in an attached debugger. runtime.Breakpoint() 을 직접 부르지 말고 이 함수를 쓴다.
// debugger 태그 없이 빌드하면 아무 일도 하지 않는다.
func BreakHere() {
	runtime.Breakpoint()
}

// Enabled reports whether the binary was built with -tags debugger.
func Enabled() bool {
	return true
}
