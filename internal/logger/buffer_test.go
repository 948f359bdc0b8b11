package logger

import "testing"

func TestBufferKeepsRecentLogs(t *testing.T) {
	InitBuffer(3)
	buf := GetBuffer()

	buf.AddLog("info", "第一条")
	buf.AddLog("warning", "第二条")

	logs := buf.GetLogs(10)
	if len(logs) != 2 {
		t.Fatalf("期望2条日志, 得到 %d", len(logs))
	}

	// 超出容量后最旧的被覆盖
	buf.AddLog("error", "第三条")
	buf.AddLog("error", "第四条")

	logs = buf.GetLogs(10)
	if len(logs) != 3 {
		t.Fatalf("容量3的缓冲区应保留3条, 得到 %d", len(logs))
	}
	for _, entry := range logs {
		if entry.Message == "第一条" {
			t.Error("最旧的日志应当被覆盖")
		}
	}
}

func TestBufferLimit(t *testing.T) {
	InitBuffer(10)
	buf := GetBuffer()
	for i := 0; i < 5; i++ {
		buf.AddLog("info", "x")
	}

	if logs := buf.GetLogs(2); len(logs) != 2 {
		t.Errorf("GetLogs(2) 应返回2条, 得到 %d", len(logs))
	}
}

func TestBufferClear(t *testing.T) {
	InitBuffer(5)
	buf := GetBuffer()
	buf.AddLog("info", "x")
	buf.Clear()

	if logs := buf.GetLogs(10); len(logs) != 0 {
		t.Errorf("清空后应无日志, 得到 %d", len(logs))
	}
}

func TestNilBufferSafe(t *testing.T) {
	var buf *LogBuffer
	buf.AddLog("info", "x")
	buf.Clear()
	if logs := buf.GetLogs(1); len(logs) != 0 {
		t.Error("nil缓冲区应返回空切片")
	}
}

func TestParseLevelFallback(t *testing.T) {
	if lvl := ParseLevel("debug").String(); lvl != "debug" {
		t.Errorf("ParseLevel(debug) = %s", lvl)
	}
	if lvl := ParseLevel("不存在的级别").String(); lvl != "info" {
		t.Errorf("非法级别应回退info, 得到 %s", lvl)
	}
}
