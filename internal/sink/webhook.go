package sink

import (
	"time"

	"github.com/google/uuid"

	"netwatch/internal/config"
	"netwatch/internal/logger"
	"netwatch/internal/monitor"
	"netwatch/internal/webhook"
)

// WebhookSink Webhook 告警输出端
// 连续失败达到阈值时发送一次 down 告警，恢复可达时发送 recovery 告警。
// 同一故障事件的 down 与 recovery 共享 incident ID。
type WebhookSink struct {
	client    *webhook.Client
	probeType string
	failCount int           // 连续失败阈值
	silence   time.Duration // 告警静默期

	// 故障事件状态（仅在调度循环内访问）
	streak       int
	down         bool
	incidentID   string
	silenceUntil time.Time
}

// NewWebhook 创建 Webhook 告警输出端
func NewWebhook(cfg *config.WebhookConfig, probeType string) *WebhookSink {
	failCount := cfg.FailCount
	if failCount < 1 {
		failCount = 1
	}

	return &WebhookSink{
		client:    webhook.NewClient(cfg),
		probeType: probeType,
		failCount: failCount,
		silence:   time.Duration(cfg.SilencePeriod) * time.Second,
	}
}

// Name 返回 sink 名称
func (w *WebhookSink) Name() string {
	return "webhook"
}

// Emit 处理一条分级样本并按需触发告警
func (w *WebhookSink) Emit(s *monitor.Sample, severity monitor.Severity) {
	if severity == monitor.SeverityDown {
		w.streak++

		if w.down || w.streak < w.failCount {
			return
		}
		if time.Now().Before(w.silenceUntil) {
			logger.Debugf("[WEBHOOK] %s 达到失败阈值，但在静默期内，不重复告警", s.Target)
			return
		}

		w.down = true
		w.incidentID = uuid.NewString()
		w.silenceUntil = time.Now().Add(w.silence)

		err := w.client.SendAlert(&webhook.Alert{
			Type:       webhook.AlertTypeDown,
			ProbeType:  w.probeType,
			Target:     s.Target,
			IncidentID: w.incidentID,
			FailCount:  w.streak,
			Threshold:  w.failCount,
			Error:      s.Err,
		})
		if err != nil {
			logger.Errorf("[WEBHOOK] down 告警发送失败: %v", err)
		}
		return
	}

	// 可达样本：如处于故障状态则发送恢复告警
	if w.down {
		err := w.client.SendAlert(&webhook.Alert{
			Type:       webhook.AlertTypeRecovery,
			ProbeType:  w.probeType,
			Target:     s.Target,
			IncidentID: w.incidentID,
		})
		if err != nil {
			logger.Errorf("[WEBHOOK] recovery 告警发送失败: %v", err)
		}
	}
	w.down = false
	w.streak = 0
}

// Close 关闭输出端
func (w *WebhookSink) Close() error {
	return nil
}
