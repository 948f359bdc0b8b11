package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"netwatch/internal/monitor"
)

func emitSequence(s monitor.Sink, threshold int, latencies []float64) {
	// 负数延迟表示不可达
	for _, ms := range latencies {
		sample := &monitor.Sample{
			Target:    "example.com",
			Timestamp: time.Now(),
			Reachable: ms >= 0,
		}
		if ms >= 0 {
			sample.LatencyMs = ms
		} else {
			sample.Err = "模拟不可达"
		}
		s.Emit(sample, monitor.Classify(sample, threshold))
	}
}

func TestFileSinkOneLinePerSampleInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatch.log")
	sink := NewFile(FileOptions{
		Path:    path,
		Level:   "debug",
		MaxMB:   1,
		MaxDays: 1,
	})

	emitSequence(sink, 100, []float64{20, 250, -1, 35})

	if err := sink.Close(); err != nil {
		t.Fatalf("关闭文件sink失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("期望4行（每条样本一行）, 得到 %d 行:\n%s", len(lines), string(data))
	}

	// 样本顺序与检测序列一致
	checks := []struct {
		substr string
		level  string
	}{
		{"20.0ms", "debug"},
		{"250.0ms", "warn"},
		{"DOWN", "error"},
		{"35.0ms", "debug"},
	}
	for i, c := range checks {
		if !strings.Contains(lines[i], c.substr) {
			t.Errorf("第%d行缺少 %q: %s", i+1, c.substr, lines[i])
		}
		if !strings.Contains(strings.ToLower(lines[i]), c.level) {
			t.Errorf("第%d行级别应为 %s: %s", i+1, c.level, lines[i])
		}
	}
}

func TestFileSinkLevelFiltersOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatch.log")
	sink := NewFile(FileOptions{
		Path:    path,
		Level:   "info",
		MaxMB:   1,
		MaxDays: 1,
	})

	// info级别下正常样本（debug）不落盘，仅记录超阈值与不可达
	emitSequence(sink, 100, []float64{20, 250, -1})

	if err := sink.Close(); err != nil {
		t.Fatalf("关闭文件sink失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("info级别下期望2行, 得到 %d 行:\n%s", len(lines), string(data))
	}
}
