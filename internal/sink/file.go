package sink

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"netwatch/internal/logger"
	"netwatch/internal/monitor"
)

// FileSink 日志文件输出端
// 纯文本格式，每条样本一行，由 lumberjack 负责轮转
type FileSink struct {
	log    *logrus.Logger
	writer *lumberjack.Logger
}

// FileOptions 日志文件选项
type FileOptions struct {
	Path    string // 日志文件路径
	Level   string // 日志级别
	MaxMB   int    // 单个文件大小上限（MB）
	MaxDays int    // 保留天数
}

// NewFile 创建日志文件输出端
func NewFile(opts FileOptions) *FileSink {
	writer := &lumberjack.Logger{
		Filename:  opts.Path,
		MaxSize:   opts.MaxMB,
		MaxAge:    opts.MaxDays,
		LocalTime: true,
		Compress:  false,
	}

	l := logrus.New()
	l.SetLevel(logger.ParseLevel(opts.Level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05-0700",
		DisableColors:   true,
	})
	l.SetOutput(writer)

	return &FileSink{log: l, writer: writer}
}

// Name 返回 sink 名称
func (f *FileSink) Name() string {
	return "file(" + f.writer.Filename + ")"
}

// Emit 追加一条分级样本，一条样本一行
func (f *FileSink) Emit(s *monitor.Sample, severity monitor.Severity) {
	switch severity {
	case monitor.SeverityDown:
		f.log.Errorf("%s: DOWN (%s)", s.Target, s.Err)
	case monitor.SeverityWarn:
		f.log.Warnf("%s: %.1fms", s.Target, s.LatencyMs)
	default:
		f.log.Debugf("%s: %.1fms", s.Target, s.LatencyMs)
	}
}

// Close 关闭日志文件
func (f *FileSink) Close() error {
	return f.writer.Close()
}
