package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"netwatch/internal/config"
	"netwatch/internal/logger"
)

// AlertType 告警类型
type AlertType string

const (
	AlertTypeDown     AlertType = "down"     // 目标不可达
	AlertTypeRecovery AlertType = "recovery" // 目标恢复
)

// Alert 告警信息
type Alert struct {
	Type       AlertType `json:"type"`        // 告警类型
	ProbeType  string    `json:"probe_type"`  // 探针类型 (ping/tcp/http)
	Target     string    `json:"target"`      // 检测目标
	IncidentID string    `json:"incident_id"` // 故障事件ID，down与对应的recovery相同
	FailCount  int       `json:"fail_count"`  // 连续失败次数
	Threshold  int       `json:"threshold"`   // 失败阈值
	Error      string    `json:"error"`       // 错误信息
	Timestamp  int64     `json:"timestamp"`   // 时间戳
	Message    string    `json:"message"`     // 可读消息
}

// Client Webhook 客户端
type Client struct {
	cfg        *config.WebhookConfig
	httpClient *http.Client
}

// NewClient 创建 Webhook 客户端
func NewClient(cfg *config.WebhookConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SendAlert 发送告警（按配置的次数重试）
func (c *Client) SendAlert(alert *Alert) error {
	if c.cfg.URL == "" {
		logger.Warn("[WEBHOOK] URL 未配置，跳过告警通知")
		return nil
	}

	alert.Timestamp = time.Now().Unix()

	// 生成可读消息
	if alert.Type == AlertTypeDown {
		alert.Message = fmt.Sprintf("[%s] %s 连续失败 %d 次（阈值: %d）: %s",
			alert.ProbeType, alert.Target, alert.FailCount, alert.Threshold, alert.Error)
	} else {
		alert.Message = fmt.Sprintf("[%s] %s 已恢复正常",
			alert.ProbeType, alert.Target)
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("序列化告警失败: %w", err)
	}

	retries := c.cfg.Retry
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		if lastErr = c.send(body); lastErr == nil {
			logger.Infof("[WEBHOOK] ✓ 告警发送成功: %s (%s)", alert.Target, alert.Type)
			return nil
		}
		logger.Warnf("[WEBHOOK] 发送失败 (%d/%d): %v", i+1, retries, lastErr)
		if i < retries-1 {
			time.Sleep(time.Second)
		}
	}

	return fmt.Errorf("告警发送失败（已重试%d次）: %w", retries, lastErr)
}

// send 发送一次HTTP请求
func (c *Client) send(body []byte) error {
	method := c.cfg.Method
	if method == "" {
		method = "POST"
	}

	req, err := http.NewRequest(method, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("响应状态码异常: %d", resp.StatusCode)
	}

	return nil
}
