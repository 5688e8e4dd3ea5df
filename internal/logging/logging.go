package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLogLevel 覆盖默认日志级别（debug|info|warn|error）。
const EnvLogLevel = "PROTON_CALL_LOG_LEVEL"

// Prefix 是日志前缀。
const Prefix = "proton-call"

// New 创建写入 w 的日志器；verbose 优先于环境变量。
func New(w io.Writer, verbose bool) *log.Logger {
	return newWithEnv(w, verbose, os.Getenv)
}

func newWithEnv(w io.Writer, verbose bool, envFn func(string) string) *log.Logger {
	level := log.InfoLevel
	if lvl, ok := parseLevel(envFn(EnvLogLevel)); ok {
		level = lvl
	}
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

func parseLevel(raw string) (log.Level, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	lvl, err := log.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return 0, false
	}
	return lvl, true
}
