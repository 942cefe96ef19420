package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel 日志级别
type LogLevel int32

// 日志级别
const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelName = []string{"error", "warn", "info", "debug"}

func (l LogLevel) String() string {
	if l >= 0 && int(l) < len(levelName) {
		return levelName[l]
	}
	return "unknown"
}

// ParseLogLevel 解析日志级别名称
func ParseLogLevel(s string) (LogLevel, error) {
	for i, n := range levelName {
		if strings.EqualFold(n, s) {
			return LogLevel(i), nil
		}
	}
	return LogLevelInfo, fmt.Errorf("未知日志级别: %q", s)
}

// Logger 分级日志
type Logger struct {
	level  atomic.Int32
	logger *log.Logger
}

// NewLogger 创建日志
func NewLogger(w io.Writer, level LogLevel, prefix string) *Logger {
	l := &Logger{logger: log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)}
	l.level.Store(int32(level))
	return l
}

// SetLevel 设置级别
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.level.Store(int32(level))
}

// Level 当前级别
func (l *Logger) Level() LogLevel { return LogLevel(l.level.Load()) }

// SetOutput 设置输出
func (l *Logger) SetOutput(w io.Writer) { l.logger.SetOutput(w) }

func (l *Logger) logf(target LogLevel, format string, args ...any) {
	if l == nil || int32(target) > l.level.Load() {
		return
	}
	l.logger.Output(3, "["+strings.ToUpper(target.String())+"] "+fmt.Sprintf(format, args...))
}

// Debugf 调试
func (l *Logger) Debugf(format string, args ...any) { l.logf(LogLevelDebug, format, args...) }

// Infof 信息
func (l *Logger) Infof(format string, args ...any) { l.logf(LogLevelInfo, format, args...) }

// Warnf 警告
func (l *Logger) Warnf(format string, args ...any) { l.logf(LogLevelWarn, format, args...) }

// Errorf 错误
func (l *Logger) Errorf(format string, args ...any) { l.logf(LogLevelError, format, args...) }

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(os.Stderr, LogLevelInfo, "[circuitsim] "))
}

// GetLogger 全局日志
func GetLogger() *Logger { return defaultLogger.Load() }

// SetLogger 替换全局日志
func SetLogger(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}
