package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// MemoryHook 内存日志钩子（供状态API查询最近日志）
type MemoryHook struct {
	buffer *LogBuffer
}

// Levels 返回支持的日志级别
func (hook *MemoryHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire 当日志触发时调用
func (hook *MemoryHook) Fire(entry *logrus.Entry) error {
	if hook.buffer != nil {
		message, _ := entry.String()
		hook.buffer.AddLog(entry.Level.String(), message)
	}
	return nil
}

// Init 初始化运行日志（控制台输出+内存缓冲）
// 运行日志记录进程生命周期事件，样本输出由各 sink 自行负责
func Init(level string) {
	Log = newLogger(level, os.Stderr)

	// 初始化内存缓冲区（保留最近1000条日志）
	InitBuffer(1000)
	Log.AddHook(&MemoryHook{buffer: GetBuffer()})
}

// ParseLevel 解析日志级别，非法值回退为 info
func ParseLevel(level string) logrus.Level {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return logLevel
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     true,
	})
	l.SetOutput(out)
	return l
}

// Debug 调试日志
func Debug(args ...interface{}) {
	if Log != nil {
		Log.Debug(args...)
	}
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	if Log != nil {
		Log.Debugf(format, args...)
	}
}

// Info 信息日志
func Info(args ...interface{}) {
	if Log != nil {
		Log.Info(args...)
	}
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	if Log != nil {
		Log.Infof(format, args...)
	}
}

// Warn 警告日志
func Warn(args ...interface{}) {
	if Log != nil {
		Log.Warn(args...)
	}
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	if Log != nil {
		Log.Warnf(format, args...)
	}
}

// Error 错误日志
func Error(args ...interface{}) {
	if Log != nil {
		Log.Error(args...)
	}
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	if Log != nil {
		Log.Errorf(format, args...)
	}
}

// Fatal 致命错误日志
func Fatal(args ...interface{}) {
	if Log != nil {
		Log.Fatal(args...)
	}
}

// Fatalf 格式化致命错误日志
func Fatalf(format string, args ...interface{}) {
	if Log != nil {
		Log.Fatalf(format, args...)
	}
}
