// Package logger 提供统一的日志工具
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DEBUG
	case "INFO", "info":
		return INFO
	case "WARN", "warn", "WARNING", "warning":
		return WARN
	case "ERROR", "error":
		return ERROR
	default:
		return INFO
	}
}

// sink 多个 Logger 共享的输出端
type sink struct {
	mu      sync.Mutex
	level   Level
	console io.Writer
	fileOut *os.File
	logger  *log.Logger
}

// Logger 日志记录器
//
// 通过 Named 派生的子 Logger 共享同一输出端与级别，只是前缀不同。
type Logger struct {
	s    *sink
	name string
}

var defaultLogger = New()

// New 创建输出到标准输出的 Logger
func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter 创建输出到指定 Writer 的 Logger，测试中常传入 io.Discard
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		s: &sink{
			level:   INFO,
			console: w,
			logger:  log.New(w, "", 0),
		},
	}
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// Discard 返回丢弃所有输出的 Logger
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

// Named 派生带组件名前缀的子 Logger
func (l *Logger) Named(name string) *Logger {
	if l.name != "" {
		name = l.name + "." + name
	}
	return &Logger{s: l.s, name: name}
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.level = level
}

// Enabled 判断指定级别是否会输出
func (l *Logger) Enabled(level Level) bool {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return level >= l.s.level
}

// SetFile 追加输出到日志文件，path 为空时关闭文件输出
func (l *Logger) SetFile(path string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if l.s.fileOut != nil {
		l.s.fileOut.Close()
		l.s.fileOut = nil
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.s.fileOut = f
	}

	if l.s.fileOut == nil {
		l.s.logger.SetOutput(l.s.console)
	} else {
		l.s.logger.SetOutput(io.MultiWriter(l.s.console, l.s.fileOut))
	}
	return nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if level < l.s.level {
		return
	}

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	if l.name != "" {
		l.s.logger.Printf("%s | %-5s | %-8s | %s", timestamp, level.String(), l.name, msg)
		return
	}
	l.s.logger.Printf("%s | %-5s | %s", timestamp, level.String(), msg)
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录一次 tick 的结果，category 一般是当前阶段名
func (l *Logger) LogEvent(category string, ok bool, elapsed time.Duration, detail string) {
	status := "OK"
	if !ok {
		status = "NG"
	}
	ms := float64(elapsed.Microseconds()) / 1000

	if ok {
		l.Info("%-16s | %s | %7.1fms | %s", category, status, ms, detail)
	} else {
		l.Warn("%-16s | %s | %7.1fms | %s", category, status, ms, detail)
	}
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if l.s.fileOut != nil {
		err := l.s.fileOut.Close()
		l.s.fileOut = nil
		l.s.logger.SetOutput(l.s.console)
		return err
	}
	return nil
}

// 包级别便捷函数
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
