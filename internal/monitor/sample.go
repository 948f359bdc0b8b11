package monitor

import (
	"time"

	"netwatch/internal/probe"
)

// Severity 样本分级
type Severity int

const (
	SeverityOK   Severity = iota // 可达且延迟在阈值内
	SeverityWarn                 // 可达但延迟超过阈值
	SeverityDown                 // 不可达
)

// String 返回分级标签
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarn:
		return "WARN"
	case SeverityDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// Sample 单次检测样本，每个检测周期生成一条，生成后不再修改
type Sample struct {
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs float64   `json:"latency_ms"` // 不可达时为0
	Reachable bool      `json:"reachable"`
	Err       string    `json:"error,omitempty"`
}

// NewSample 由检测结果构造样本
func NewSample(r *probe.Result) *Sample {
	s := &Sample{
		Target:    r.Target,
		Timestamp: time.Now(),
		Reachable: r.Success,
	}
	if r.Success {
		s.LatencyMs = float64(r.Latency.Microseconds()) / 1000.0
	} else if r.Error != nil {
		s.Err = r.Error.Error()
	}
	return s
}

// Classify 按延迟阈值对样本分级（纯函数，无副作用）
// 不可达 -> DOWN；延迟严格大于阈值 -> WARN；否则 -> OK
func Classify(s *Sample, thresholdMs int) Severity {
	if !s.Reachable {
		return SeverityDown
	}
	if s.LatencyMs > float64(thresholdMs) {
		return SeverityWarn
	}
	return SeverityOK
}

// Sink 分级样本的输出端
// 各 sink 独立格式化和输出，互相之间不共享可变状态
type Sink interface {
	// Emit 输出一条分级样本
	Emit(s *Sample, severity Severity)
	// Name 返回 sink 名称（用于日志）
	Name() string
	// Close 关闭并释放资源
	Close() error
}
