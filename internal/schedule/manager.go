package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"netwatch/internal/config"
	"netwatch/internal/logger"
	"netwatch/internal/storage"
)

// Manager 定时任务管理器，负责周期性的汇总任务
type Manager struct {
	cron      *cron.Cron
	isRunning bool
	mu        sync.Mutex
}

// NewManager 创建定时任务管理器
func NewManager() *Manager {
	return &Manager{
		cron: cron.New(),
	}
}

// AddJob 按 cron 表达式添加任务（标准5位格式，支持 @daily 等描述符）
func (m *Manager) AddJob(spec string, job func()) (cron.EntryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("无效的 cron 表达式 %q: %w", spec, err)
	}
	return id, nil
}

// Start 启动调度器
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return
	}

	m.cron.Start()
	m.isRunning = true
	logger.Info("[Schedule] 定时任务调度器已启动")
}

// Stop 停止调度器
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return
	}

	m.cron.Stop()
	m.isRunning = false
	logger.Info("[Schedule] 定时任务调度器已停止")
}

// NewSummaryJob 构造定时汇总任务：统计最近一段时间的样本并写运行日志
// 存储实例在任务执行时获取，未初始化则跳过本次汇总
func NewSummaryJob(target string, window time.Duration) func() {
	return func() {
		store := storage.GetStorage()
		if store == nil {
			return
		}

		summary, err := store.Summarize(target, time.Now().Add(-window))
		if err != nil {
			logger.Errorf("[Schedule] 定时汇总失败: %v", err)
			return
		}
		if summary.Total == 0 {
			logger.Infof("[Schedule] %s 最近 %s 内没有样本", target, config.FormatSpan(int(window.Seconds())))
			return
		}

		logger.Infof("[Schedule] %s 最近 %s 汇总: 检测 %d 次, 在线率 %.2f%%, 超阈值 %d 次, 中断 %d 次, 延迟 avg %.1fms / max %.1fms",
			target, config.FormatSpan(int(window.Seconds())),
			summary.Total, summary.UptimePct, summary.Warn, summary.Down,
			summary.AvgLatencyMs, summary.MaxLatencyMs)
	}
}
