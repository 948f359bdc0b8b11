// Package pidfile 维护运行实例的 PID 文件，供 --stop 定位并停止正在运行的监控进程。
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// Write 写入当前进程的 PID 文件
func Write(path string) error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
		return fmt.Errorf("写入PID文件失败: %w", err)
	}
	return nil
}

// Read 读取 PID 文件
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("PID文件内容无效: %w", err)
	}
	return pid, nil
}

// Remove 删除 PID 文件
func Remove(path string) {
	_ = os.Remove(path)
}

// SignalStop 向 PID 文件中记录的进程发送 SIGTERM
// 返回 false 表示没有正在运行的实例（文件不存在或进程已退出）
func SignalStop(path string) (bool, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		Remove(path)
		return false, nil
	}

	// 信号0仅探测进程是否存在
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		// 残留的过期PID文件
		Remove(path)
		return false, nil
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return false, fmt.Errorf("发送停止信号失败 (pid=%d): %w", pid, err)
	}
	return true, nil
}
