package probe

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want ProbeType
	}{
		{"ping", TypePing},
		{"icmp", TypePing},
		{"PING", TypePing},
		{"tcp", TypeTCP},
		{"http", TypeHTTP},
	}

	for _, tt := range tests {
		checker, err := New(tt.name)
		if err != nil {
			t.Errorf("New(%q) 返回错误: %v", tt.name, err)
			continue
		}
		if checker.Type() != tt.want {
			t.Errorf("New(%q).Type() = %s, 期望 %s", tt.name, checker.Type(), tt.want)
		}
	}

	if _, err := New("udp"); err == nil {
		t.Error("New(\"udp\") 应当返回错误")
	}
}

func TestTCPCheckerSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("创建监听失败: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	result := NewTCPChecker().Check(ln.Addr().String(), 2*time.Second)
	if !result.Success {
		t.Fatalf("本地端口检测应当成功: %v", result.Error)
	}
	if result.Latency <= 0 {
		t.Errorf("延迟应当大于0, 得到 %v", result.Latency)
	}
	if result.Type != TypeTCP {
		t.Errorf("结果类型 = %s, 期望 %s", result.Type, TypeTCP)
	}
}

func TestTCPCheckerBadTarget(t *testing.T) {
	result := NewTCPChecker().Check("no-port-here", time.Second)
	if result.Success {
		t.Fatal("缺少端口的目标应当失败")
	}
	if result.Error == nil {
		t.Fatal("失败结果应当携带错误信息")
	}
}

func TestTCPCheckerUnreachable(t *testing.T) {
	// 占用再关闭一个端口，确保其上没有监听者
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("创建监听失败: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	result := NewTCPChecker().Check(addr, time.Second)
	if result.Success {
		t.Fatal("连接已关闭端口应当失败")
	}
	if result.Error == nil {
		t.Fatal("失败结果应当携带错误信息")
	}
}

func TestHTTPChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := NewHTTPChecker(2*time.Second).Check(srv.URL, 2*time.Second)
	if !result.Success {
		t.Fatalf("本地HTTP检测应当成功: %v", result.Error)
	}
}

func TestHTTPCheckerBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := NewHTTPChecker(2*time.Second).Check(srv.URL, 2*time.Second)
	if result.Success {
		t.Fatal("500状态码应当判定为失败")
	}
}

func TestHTTPCheckerBadURL(t *testing.T) {
	result := NewHTTPChecker(time.Second).Check("example.com", time.Second)
	if result.Success || result.Error == nil {
		t.Fatal("非法URL应当失败并携带错误")
	}
}
