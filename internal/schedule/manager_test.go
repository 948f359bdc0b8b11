package schedule

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"netwatch/internal/logger"
	"netwatch/internal/monitor"
	"netwatch/internal/storage"
)

func TestAddJobInvalidSpec(t *testing.T) {
	m := NewManager()
	if _, err := m.AddJob("not a cron spec", func() {}); err == nil {
		t.Error("非法 cron 表达式应当返回错误")
	}
}

func TestManagerRunsJob(t *testing.T) {
	m := NewManager()

	var fired atomic.Int32
	if _, err := m.AddJob("@every 100ms", func() {
		fired.Add(1)
	}); err != nil {
		t.Fatalf("添加任务失败: %v", err)
	}

	m.Start()
	defer m.Stop()

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("任务未在期限内执行")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestSummaryJobSkipsWithoutStorage(t *testing.T) {
	if storage.GetStorage() != nil {
		t.Skip("存储已被其他测试初始化")
	}

	// 存储未初始化时任务直接跳过，不应panic
	job := NewSummaryJob("example.com", time.Hour)
	job()
}

func TestSummaryJobLogsSummary(t *testing.T) {
	store, err := storage.Init(filepath.Join(t.TempDir(), "schedule_test.db"))
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}

	sample := &monitor.Sample{
		Target:    "example.com",
		Timestamp: time.Now(),
		LatencyMs: 42,
		Reachable: true,
	}
	if err := store.InsertSample(sample, monitor.SeverityOK); err != nil {
		t.Fatalf("写入样本失败: %v", err)
	}

	logger.Init("info")
	var buf bytes.Buffer
	logger.Log.SetOutput(&buf)

	job := NewSummaryJob("example.com", time.Hour)
	job()

	if out := buf.String(); !strings.Contains(out, "汇总") {
		t.Errorf("定时汇总任务应输出汇总日志, 实际输出: %q", out)
	}
}

func TestManagerStartStopIdempotent(t *testing.T) {
	m := NewManager()
	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
}
