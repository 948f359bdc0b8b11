package probe

import (
	"fmt"
	"strings"
	"time"
)

// ProbeType 检测类型
type ProbeType string

const (
	TypePing ProbeType = "PING"
	TypeTCP  ProbeType = "TCP"
	TypeHTTP ProbeType = "HTTP"
)

// Result 通用检测结果
type Result struct {
	Type    ProbeType     // 检测类型
	Target  string        // 检测目标
	Success bool          // 是否可达
	Latency time.Duration // 延迟
	Error   error         // 错误信息（不可达时的原因）
}

// Checker 检测器接口
type Checker interface {
	// Check 执行一次检测，网络故障体现在 Result 中而不是返回错误
	Check(target string, timeout time.Duration) *Result
	// Type 返回检测类型
	Type() ProbeType
}

// New 按名称创建检测器
func New(name string) (Checker, error) {
	switch strings.ToLower(name) {
	case "ping", "icmp":
		return NewPingChecker(), nil
	case "tcp":
		return NewTCPChecker(), nil
	case "http":
		return NewHTTPChecker(10 * time.Second), nil
	default:
		return nil, fmt.Errorf("未知的检测类型: %s (支持 ping/tcp/http)", name)
	}
}
