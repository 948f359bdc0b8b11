package probe

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPChecker HTTP检测器
type HTTPChecker struct {
	client *http.Client
}

// NewHTTPChecker 创建HTTP检测器
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	// 跳过证书验证，便于检测使用自签名证书的内部服务
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPChecker{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			// 不跟随重定向
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Type 返回检测类型
func (c *HTTPChecker) Type() ProbeType {
	return TypeHTTP
}

// Check 执行HTTP检测
// target 格式: URL (例如: https://example.com/health)
func (c *HTTPChecker) Check(target string, timeout time.Duration) *Result {
	result := &Result{
		Type:   TypeHTTP,
		Target: target,
	}

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		result.Error = fmt.Errorf("无效的URL格式 (应以 http:// 或 https:// 开头): %s", target)
		return result
	}

	c.client.Timeout = timeout

	start := time.Now()

	resp, err := c.client.Get(target)
	if err != nil {
		result.Error = fmt.Errorf("HTTP请求失败: %w", err)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	// 2xx 和 3xx 都认为可达
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Success = true
	} else {
		result.Error = fmt.Errorf("HTTP状态码异常: %d", resp.StatusCode)
	}

	return result
}
