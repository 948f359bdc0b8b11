package probe

import (
	"fmt"
	"net"
	"time"

	goping "github.com/go-ping/ping"
)

// PingChecker ICMP Ping检测器
type PingChecker struct{}

// NewPingChecker 创建Ping检测器
func NewPingChecker() *PingChecker {
	return &PingChecker{}
}

// Type 返回检测类型
func (c *PingChecker) Type() ProbeType {
	return TypePing
}

// Check 执行一次ICMP Ping检测（单包，无内部重试）
func (c *PingChecker) Check(target string, timeout time.Duration) *Result {
	result := &Result{
		Type:   TypePing,
		Target: target,
	}

	// 如果是域名，先使用系统 DNS 解析
	ipAddr := target
	if net.ParseIP(target) == nil {
		ips, err := net.LookupHost(target)
		if err != nil {
			result.Error = fmt.Errorf("DNS解析失败 (%s): %w", target, err)
			return result
		}
		if len(ips) == 0 {
			result.Error = fmt.Errorf("DNS解析未返回IP地址: %s", target)
			return result
		}
		ipAddr = ips[0] // 使用第一个IP
	}

	pinger, err := goping.NewPinger(ipAddr)
	if err != nil {
		result.Error = fmt.Errorf("创建pinger失败: %w", err)
		return result
	}

	// Linux系统使用特权模式（原始ICMP套接字）
	pinger.SetPrivileged(true)

	// 每个检测周期只发一个包，失败留给下个周期
	pinger.Count = 1
	pinger.Timeout = timeout

	if err := pinger.Run(); err != nil {
		result.Error = fmt.Errorf("执行ping失败: %w", err)
		return result
	}

	stats := pinger.Statistics()

	if stats.PacketsRecv > 0 {
		result.Success = true
		result.Latency = stats.AvgRtt
	} else {
		result.Error = fmt.Errorf("ICMP应答超时 - 目标主机可能不可达或禁用了ICMP (发送: %d, 接收: %d)",
			stats.PacketsSent, stats.PacketsRecv)
	}

	return result
}
