// Package nlog is the node core's leveled logger: a small, dependency-free
// writer that timestamps and serializes Info/Warning/Error lines the way
// a daemon's own logger would, minus the file-rotation machinery a
// library has no business owning.
package nlog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	errOut io.Writer = os.Stderr
)

// SetOutput redirects Info/Warning lines; SetErrOutput redirects Error lines.
// Tests use this to capture log output instead of polluting stderr.
func SetOutput(w io.Writer)    { mu.Lock(); out = w; mu.Unlock() }
func SetErrOutput(w io.Writer) { mu.Lock(); errOut = w; mu.Unlock() }

func log(sev severity, depth int, format string, args ...any) {
	line := render(sev, depth+1, format, args...)
	mu.Lock()
	defer mu.Unlock()
	if sev >= sevErr {
		io.WriteString(errOut, line)
		return
	}
	io.WriteString(out, line)
}

func render(sev severity, depth int, format string, args ...any) string {
	var msg string
	if format == "" {
		msg = fmt.Sprintln(args...)
	} else {
		msg = fmt.Sprintf(format, args...) + "\n"
	}
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		file, line = "???", 0
	} else {
		for i := len(file) - 1; i >= 0; i-- {
			if file[i] == '/' {
				file = file[i+1:]
				break
			}
		}
	}
	return sevLetter(sev) + time.Now().UTC().Format("0102 15:04:05.000000") +
		" " + file + ":" + strconv.Itoa(line) + "] " + msg
}

func sevLetter(sev severity) string {
	switch sev {
	case sevWarn:
		return "W"
	case sevErr:
		return "E"
	default:
		return "I"
	}
}

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }
