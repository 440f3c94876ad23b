package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger used by the movie API.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - text lines by default, one JSON object per line with SetFormat("json")

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Service is attached to every JSON log line.
const Service = "movie-api"

var (
	mu         sync.RWMutex
	logger     *log.Logger = log.New(os.Stdout, "", 0)
	level      Level       = LevelInfo
	jsonFormat bool
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
}

// SetFormat selects "json" or "text" (anything else) output.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	jsonFormat = strings.EqualFold(strings.TrimSpace(f), "json")
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func write(lvl, format string, v ...interface{}) {
	mu.RLock()
	out, asJSON := logger, jsonFormat
	mu.RUnlock()

	msg := fmt.Sprintf(format, v...)
	now := time.Now().Format(time.RFC3339)
	if !asJSON {
		out.Print(now + " [" + strings.ToUpper(lvl) + "] " + msg)
		return
	}
	b, err := json.Marshal(struct {
		Time    string `json:"time"`
		Level   string `json:"level"`
		Service string `json:"service"`
		Message string `json:"message"`
	}{now, lvl, Service, msg})
	if err != nil {
		out.Print(now + " [" + strings.ToUpper(lvl) + "] " + msg)
		return
	}
	out.Print(string(b))
}

func Debugf(format string, v ...interface{}) {
	if !shouldLog(LevelDebug) {
		return
	}
	write("debug", format, v...)
}

func Infof(format string, v ...interface{}) {
	if !shouldLog(LevelInfo) {
		return
	}
	write("info", format, v...)
}

func Warnf(format string, v ...interface{}) {
	if !shouldLog(LevelWarn) {
		return
	}
	write("warn", format, v...)
}

func Errorf(format string, v ...interface{}) {
	if !shouldLog(LevelError) {
		return
	}
	write("error", format, v...)
}

func Fatalf(format string, v ...interface{}) {
	write("fatal", format, v...)
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
