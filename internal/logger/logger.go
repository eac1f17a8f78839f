package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Options struct {
	Level Level
	// File enables a rotating plain-text copy of every line.
	File string
	// Output defaults to stdout.
	Output io.Writer
}

type Logger struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	file   *lumberjack.Logger
	exitFn func(int)

	debug   func(a ...interface{}) string
	info    func(a ...interface{}) string
	warn    func(a ...interface{}) string
	errc    func(a ...interface{}) string
	process func(a ...interface{}) string
	db      func(a ...interface{}) string
	kafka   func(a ...interface{}) string
	api     func(a ...interface{}) string
	payment func(a ...interface{}) string
	sec     func(a ...interface{}) string
}

// NewLogger returns an info-level logger writing to stdout.
func NewLogger() *Logger {
	return New(Options{Level: LevelInfo})
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	l := &Logger{
		level:   opts.Level,
		out:     out,
		exitFn:  os.Exit,
		debug:   color.New(color.FgHiBlack).SprintFunc(),
		info:    color.New(color.FgGreen).SprintFunc(),
		warn:    color.New(color.FgYellow).SprintFunc(),
		errc:    color.New(color.FgRed, color.Bold).SprintFunc(),
		process: color.New(color.FgCyan).SprintFunc(),
		db:      color.New(color.FgBlue).SprintFunc(),
		kafka:   color.New(color.FgMagenta).SprintFunc(),
		api:     color.New(color.FgHiCyan).SprintFunc(),
		payment: color.New(color.FgHiGreen).SprintFunc(),
		sec:     color.New(color.FgHiRed).SprintFunc(),
	}

	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		}
	}
	return l
}

func (l *Logger) write(level Level, tag string, paint func(a ...interface{}) string, component, msg string) {
	if level < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	plain := fmt.Sprintf("%s [%s] [%s] %s\n", ts, tag, component, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s [%s] %s\n", ts, paint("["+tag+"]"), component, msg)
	if l.file != nil {
		_, _ = l.file.Write([]byte(plain))
	}
}

func (l *Logger) Debug(component, msg string) { l.write(LevelDebug, "DEBUG", l.debug, component, msg) }
func (l *Logger) Info(component, msg string)  { l.write(LevelInfo, "INFO", l.info, component, msg) }
func (l *Logger) Warn(component, msg string)  { l.write(LevelWarn, "WARN", l.warn, component, msg) }
func (l *Logger) Error(component, msg string) { l.write(LevelError, "ERROR", l.errc, component, msg) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(component, msg string) {
	l.write(LevelError, "FATAL", l.errc, component, msg)
	l.Close()
	l.exitFn(1)
}

func (l *Logger) LogProcess(component, msg string) {
	l.write(LevelInfo, "PROCESS", l.process, component, msg)
}

func (l *Logger) LogDatabase(operation, db, msg string) {
	l.write(LevelDebug, "DB", l.db, db+":"+operation, msg)
}

func (l *Logger) LogKafka(operation, topic, msg string) {
	l.write(LevelInfo, "KAFKA", l.kafka, topic+":"+operation, msg)
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.write(LevelInfo, "API", l.api, method, fmt.Sprintf("%s %s (%s)", path, status, duration))
}

func (l *Logger) LogPayment(operation, paymentID, msg string) {
	l.write(LevelInfo, "PAYMENT", l.payment, operation+":"+paymentID, msg)
}

func (l *Logger) LogBooking(operation, bookingID, msg string) {
	l.write(LevelInfo, "BOOKING", l.payment, operation+":"+bookingID, msg)
}

func (l *Logger) LogSecurity(event, msg string) {
	l.write(LevelWarn, "SECURITY", l.sec, event, msg)
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}
