package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ANSI colour codes per log level
const (
	reset   = "\033[0m"
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	verbose bool
)

// SetOutput redirects all log lines. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetVerbose enables Debug lines.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func ts() string {
	return time.Now().Format("15:04:05")
}

// logf serialises writes; worker goroutines log concurrently.
func logf(colour, level, format string, a ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s[%s] %-7s %s%s\n", colour, ts(), level, fmt.Sprintf(format, a...), reset)
}

func Debug(format string, a ...interface{}) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	logf(magenta, "[DEBUG]", format, a...)
}

func Info(format string, a ...interface{}) {
	logf(blue, "[INFO]", format, a...)
}

func Success(format string, a ...interface{}) {
	logf(green, "[OK]", format, a...)
}

func Warn(format string, a ...interface{}) {
	logf(yellow, "[WARN]", format, a...)
}

func Error(format string, a ...interface{}) {
	logf(red, "[ERROR]", format, a...)
}

func Section(title string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "\n%s[%s] ══════════ %s ══════════%s\n\n", cyan, ts(), title, reset)
}
