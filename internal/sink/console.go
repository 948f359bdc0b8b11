// Package sink 实现分级样本的各类输出端。
// 每个 sink 独立格式化和输出样本，互相之间不共享可变状态。
package sink

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"netwatch/internal/logger"
	"netwatch/internal/monitor"
)

// ConsoleSink 控制台输出端
// OK 样本记为 debug，超阈值记为 warning，不可达记为 error
type ConsoleSink struct {
	log *logrus.Logger
}

// NewConsole 创建控制台输出端（输出到stderr）
func NewConsole(level string) *ConsoleSink {
	return newConsoleTo(level, os.Stderr)
}

func newConsoleTo(level string, out io.Writer) *ConsoleSink {
	l := logrus.New()
	l.SetLevel(logger.ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     true,
	})
	l.SetOutput(out)
	return &ConsoleSink{log: l}
}

// Name 返回 sink 名称
func (c *ConsoleSink) Name() string {
	return "console"
}

// Emit 输出一条分级样本
func (c *ConsoleSink) Emit(s *monitor.Sample, severity monitor.Severity) {
	switch severity {
	case monitor.SeverityDown:
		c.log.Errorf("%s: DOWN (%s)", s.Target, s.Err)
	case monitor.SeverityWarn:
		c.log.Warnf("%s: %.1fms", s.Target, s.LatencyMs)
	default:
		c.log.Debugf("%s: %.1fms", s.Target, s.LatencyMs)
	}
}

// Close 关闭输出端
func (c *ConsoleSink) Close() error {
	return nil
}
