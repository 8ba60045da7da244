//go:build debug

package debug

import (
	"fmt"
	"sync"
)

func ON() bool { return true }

func Assert(cond bool, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprint(args...))
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}

func AssertFunc(f func() bool, args ...any) {
	Assert(f(), args...)
}

func AssertNoErr(err error) {
	if err != nil {
		panic("unexpected error: " + err.Error())
	}
}

// AssertMutexLocked and AssertRWMutexLocked are best-effort: Go's sync
// primitives don't expose lock state, so these only catch the case
// where the mutex is still free (a stronger check would need a
// debug-only wrapper type used throughout, which this core doesn't do).
func AssertMutexLocked(mu *sync.Mutex) {
	locked := !mu.TryLock()
	Assert(locked, "mutex must be held")
	if !locked {
		mu.Unlock()
	}
}

func AssertRWMutexLocked(mu *sync.RWMutex) {
	locked := !mu.TryLock()
	Assert(locked, "rwmutex must be held")
	if !locked {
		mu.Unlock()
	}
}
