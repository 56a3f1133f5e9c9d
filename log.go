package nanoui

import (
	"fmt"
	"os"
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// LogLevel classifies bridge log messages.
type LogLevel int32

const (
	LogQuiet   LogLevel = iota // Print no output
	LogError                   // Something went wrong, the bridge degraded
	LogWarning                 // Something unexpected but harmless
	LogInfo                    // Standard information
	LogDebug                   // Stuff for debugging
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogQuiet:
		return "quiet"
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogInfo:
		return "info"
	default:
		return "debug"
	}
}

// LogCallback is called for each bridge log message.
type LogCallback func(level LogLevel, message string)

var (
	logMu       sync.Mutex
	logCallback LogCallback
	logLevel    = LogWarning
)

// SetLogLevel sets the maximum level that is emitted.
func SetLogLevel(level LogLevel) {
	logMu.Lock()
	logLevel = level
	logMu.Unlock()
}

// SetLogCallback sets a custom log handler for bridge messages.
// Pass nil to restore the default stderr writer.
func SetLogCallback(cb LogCallback) {
	logMu.Lock()
	logCallback = cb
	logMu.Unlock()
}

func logf(level LogLevel, format string, args ...any) {
	logMu.Lock()
	max := logLevel
	cb := logCallback
	logMu.Unlock()
	if level > max || level == LogQuiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if cb != nil {
		cb(level, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "[nanoui] %s: %s\n", level, msg)
}

func panicf(format string, args ...any) {
	panic(fmt.Sprintf("nanoui: "+format, args...))
}

func init() {
	// Class-synthesis failures inside internal/objc surface through the
	// package logger.
	objc.SetLogger(func(format string, args ...any) {
		logf(LogError, format, args...)
	})
}
