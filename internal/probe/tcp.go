package probe

import (
	"fmt"
	"net"
	"time"
)

// TCPChecker TCP端口检测器
type TCPChecker struct{}

// NewTCPChecker 创建TCP检测器
func NewTCPChecker() *TCPChecker {
	return &TCPChecker{}
}

// Type 返回检测类型
func (c *TCPChecker) Type() ProbeType {
	return TypeTCP
}

// Check 执行TCP端口检测
// target 格式: host:port (例如: example.com:443)
func (c *TCPChecker) Check(target string, timeout time.Duration) *Result {
	result := &Result{
		Type:   TypeTCP,
		Target: target,
	}

	host, port, err := net.SplitHostPort(target)
	if err != nil {
		result.Error = fmt.Errorf("无效的目标格式 (应为 host:port): %w", err)
		return result
	}
	if host == "" || port == "" {
		result.Error = fmt.Errorf("无效的目标格式: host=%s, port=%s", host, port)
		return result
	}

	start := time.Now()

	conn, err := net.DialTimeout("tcp", target, timeout)
	if err != nil {
		result.Error = fmt.Errorf("TCP连接失败: %w", err)
		return result
	}
	defer conn.Close()

	result.Latency = time.Since(start)
	result.Success = true

	return result
}
