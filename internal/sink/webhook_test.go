package sink

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"netwatch/internal/config"
	"netwatch/internal/webhook"
)

func newAlertServer(t *testing.T) (*httptest.Server, func() []webhook.Alert) {
	t.Helper()

	var mu sync.Mutex
	var alerts []webhook.Alert

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var a webhook.Alert
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			t.Errorf("解析告警失败: %v", err)
		}
		mu.Lock()
		alerts = append(alerts, a)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []webhook.Alert {
		mu.Lock()
		defer mu.Unlock()
		return append([]webhook.Alert(nil), alerts...)
	}
}

func TestWebhookSinkDownAndRecovery(t *testing.T) {
	srv, getAlerts := newAlertServer(t)

	sink := NewWebhook(&config.WebhookConfig{
		URL:       srv.URL,
		Method:    "POST",
		Timeout:   2,
		Retry:     1,
		FailCount: 2,
	}, "PING")

	// 连续2次失败触发down告警，第3次失败不重复，恢复后发recovery
	emitSequence(sink, 100, []float64{20, -1, -1, -1, 30})

	alerts := getAlerts()
	if len(alerts) != 2 {
		t.Fatalf("期望2条告警(down+recovery), 得到 %d", len(alerts))
	}

	down, recovery := alerts[0], alerts[1]
	if down.Type != webhook.AlertTypeDown {
		t.Errorf("第一条告警类型 = %s, 期望 down", down.Type)
	}
	if down.FailCount != 2 {
		t.Errorf("down告警失败次数 = %d, 期望 2", down.FailCount)
	}
	if recovery.Type != webhook.AlertTypeRecovery {
		t.Errorf("第二条告警类型 = %s, 期望 recovery", recovery.Type)
	}
	if down.IncidentID == "" || down.IncidentID != recovery.IncidentID {
		t.Errorf("down与recovery应共享事件ID: %q vs %q", down.IncidentID, recovery.IncidentID)
	}
}

func TestWebhookSinkBelowThresholdNoAlert(t *testing.T) {
	srv, getAlerts := newAlertServer(t)

	sink := NewWebhook(&config.WebhookConfig{
		URL:       srv.URL,
		Timeout:   2,
		Retry:     1,
		FailCount: 3,
	}, "PING")

	// 2次失败未达到阈值3，随后恢复，全程无告警
	emitSequence(sink, 100, []float64{-1, -1, 20})

	if alerts := getAlerts(); len(alerts) != 0 {
		t.Fatalf("未达阈值不应告警, 得到 %d 条", len(alerts))
	}
}

func TestWebhookSinkNewIncidentPerOutage(t *testing.T) {
	srv, getAlerts := newAlertServer(t)

	sink := NewWebhook(&config.WebhookConfig{
		URL:       srv.URL,
		Timeout:   2,
		Retry:     1,
		FailCount: 1,
	}, "PING")

	// 两次独立故障
	emitSequence(sink, 100, []float64{-1, 20, -1, 20})

	alerts := getAlerts()
	if len(alerts) != 4 {
		t.Fatalf("期望4条告警, 得到 %d", len(alerts))
	}
	if alerts[0].IncidentID == alerts[2].IncidentID {
		t.Error("两次独立故障应使用不同的事件ID")
	}
}
