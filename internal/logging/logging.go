// Package logging provides the leveled process logger.
//
// Messages go to stderr unless a log file is configured, in which case they
// are written to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
)

// Mode is the minimum severity a message needs to be written.
type Mode uint

const (
	DebugMode Mode = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var modeNames = map[string]Mode{
	"debug":    DebugMode,
	"info":     InfoMode,
	"warning":  WarningMode,
	"error":    ErrorMode,
	"critical": CriticalMode,
	"silent":   SilentMode,
}

// ParseMode converts a level name such as "info" to a Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return InfoMode, fmt.Errorf("logging: unknown level %q", s)
	}
	return m, nil
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", uint(m))
}

// Logger writes messages at different severities.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})

	// Shutdown makes sure logs are closed.
	Shutdown()
}

var (
	mu     sync.RWMutex
	mode   = InfoMode
	logger Logger = newStdLogger(os.Stderr, nil)
)

// SetLogMode sets the severity required for a message to be written.
// SetLogMode(WarningMode) logs Warningf, Errorf and Criticalf calls; use
// SilentMode to turn off all logging.
func SetLogMode(m Mode) {
	mu.Lock()
	mode = m
	mu.Unlock()
}

// LogMode returns the current severity threshold.
func LogMode() Mode {
	mu.RLock()
	defer mu.RUnlock()
	return mode
}

// SetOutput sends messages to w, replacing any log file.
func SetOutput(w io.Writer) {
	replace(newStdLogger(w, nil))
}

func replace(l Logger) {
	mu.Lock()
	old := logger
	logger = l
	mu.Unlock()
	if old != nil {
		old.Shutdown()
	}
}

func current(level Mode) (Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, mode <= level
}

func Debugf(format string, args ...interface{}) {
	if l, ok := current(DebugMode); ok {
		l.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if l, ok := current(InfoMode); ok {
		l.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if l, ok := current(WarningMode); ok {
		l.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if l, ok := current(ErrorMode); ok {
		l.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if l, ok := current(CriticalMode); ok {
		l.Criticalf(format, args...)
	}
}

// Shutdown closes the log file, if any, and reverts to stderr.
func Shutdown() {
	replace(newStdLogger(os.Stderr, nil))
}

// TimeLog adds elapsed time to logging.
//
//	tlog := logging.NewTimeLog()
//	...
//	tlog.Infof("composed %s", name) // appends time since NewTimeLog()
type TimeLog struct {
	start time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{time.Now()}
}

// Elapsed returns the time since the TimeLog was created.
func (t TimeLog) Elapsed() time.Duration {
	return time.Since(t.start)
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	Debugf(format+": %s", append(args, t.Elapsed())...)
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	Infof(format+": %s", append(args, t.Elapsed())...)
}

func (t TimeLog) Warningf(format string, args ...interface{}) {
	Warningf(format+": %s", append(args, t.Elapsed())...)
}

func (t TimeLog) Errorf(format string, args ...interface{}) {
	Errorf(format+": %s", append(args, t.Elapsed())...)
}

// Config selects where messages go.
type Config struct {
	Logfile string
	MaxSize int    `toml:"max_log_size"`
	MaxAge  int    `toml:"max_log_age"`
	Level   string `toml:"level"`
}

// Apply sets the log mode and, if a log file is named, sends messages to a
// rotating log file.
func (c *Config) Apply() error {
	if c == nil {
		return nil
	}
	if c.Level != "" {
		m, err := ParseMode(c.Level)
		if err != nil {
			return err
		}
		SetLogMode(m)
	}
	if c.Logfile == "" {
		return nil
	}
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	}
	replace(newStdLogger(l, l))
	return nil
}

// --- Logger implementation ----

type stdLogger struct {
	*log.Logger
	file io.Closer
}

func newStdLogger(w io.Writer, file io.Closer) stdLogger {
	return stdLogger{Logger: log.New(w, "", log.LstdFlags), file: file}
}

func (l stdLogger) Debugf(format string, args ...interface{}) {
	l.Printf(" DEBUG "+format, args...)
}

func (l stdLogger) Infof(format string, args ...interface{}) {
	l.Printf(" INFO "+format, args...)
}

func (l stdLogger) Warningf(format string, args ...interface{}) {
	l.Printf(" WARNING "+format, args...)
}

func (l stdLogger) Errorf(format string, args ...interface{}) {
	l.Printf(" ERROR "+format, args...)
}

func (l stdLogger) Criticalf(format string, args ...interface{}) {
	l.Printf(" CRITICAL "+format, args...)
}

func (l stdLogger) Shutdown() {
	if l.file != nil {
		l.file.Close()
	}
}
