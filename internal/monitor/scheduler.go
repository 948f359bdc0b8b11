package monitor

import (
	"fmt"
	"sync"
	"time"

	"netwatch/internal/logger"
	"netwatch/internal/probe"
)

// Options 调度器选项
type Options struct {
	Host      string        // 检测目标
	Interval  time.Duration // 检测间隔
	Timeout   time.Duration // 单次检测超时
	Threshold int           // 延迟告警阈值（毫秒）
}

// Scheduler 监控调度器
// 单协程循环: 等待间隔 -> 检测 -> 分级 -> 分发到各 sink
type Scheduler struct {
	opts       Options
	checker    probe.Checker
	sinks      []Sink
	ticker    *time.Ticker
	stopChan  chan bool
	doneChan  chan bool
	isRunning bool
	mu        sync.Mutex

	failStreak int // 连续失败次数
	streakMu   sync.Mutex
}

// NewScheduler 创建监控调度器
func NewScheduler(checker probe.Checker, opts Options, sinks []Sink) *Scheduler {
	return &Scheduler{
		opts:     opts,
		checker:  checker,
		sinks:    sinks,
		stopChan: make(chan bool),
		doneChan: make(chan bool),
	}
}

// Start 启动监控循环
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("监控已经在运行中")
	}
	if s.opts.Interval <= 0 {
		return fmt.Errorf("检测间隔必须大于0: %v", s.opts.Interval)
	}

	logger.Info("==========================================")
	logger.Infof("启动监控: %s (%s)", s.opts.Host, s.checker.Type())
	logger.Infof("检测间隔: %v, 超时: %v, 延迟阈值: %dms",
		s.opts.Interval, s.opts.Timeout, s.opts.Threshold)
	for _, sink := range s.sinks {
		logger.Infof("输出端: %s", sink.Name())
	}
	logger.Info("==========================================")

	s.ticker = time.NewTicker(s.opts.Interval)
	s.isRunning = true

	go s.monitorLoop()

	return nil
}

// Stop 停止监控循环并关闭所有 sink
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return fmt.Errorf("监控未在运行")
	}

	s.ticker.Stop()
	s.stopChan <- true
	<-s.doneChan
	s.isRunning = false

	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			logger.Warnf("关闭输出端 %s 失败: %v", sink.Name(), err)
		}
	}

	logger.Info("监控已停止")
	return nil
}

// IsRunning 检查是否正在运行
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// monitorLoop 监控循环，启动后立即执行一次检测
func (s *Scheduler) monitorLoop() {
	s.RunOnce()

	for {
		select {
		case <-s.ticker.C:
			s.RunOnce()
		case <-s.stopChan:
			s.doneChan <- true
			return
		}
	}
}

// RunOnce 执行一个完整的检测周期: 检测 -> 分级 -> 分发
// 同步执行，周期之间不会互相重叠
func (s *Scheduler) RunOnce() {
	result := s.checker.Check(s.opts.Host, s.opts.Timeout)
	sample := NewSample(result)
	severity := Classify(sample, s.opts.Threshold)

	switch severity {
	case SeverityDown:
		streak := s.bumpStreak()
		logger.Debugf("✗ %s 不可达 (连续 %d 次): %s", sample.Target, streak, sample.Err)
	default:
		if prev := s.resetStreak(); prev > 0 {
			logger.Debugf("✓ %s 恢复可达 (此前连续失败 %d 次)", sample.Target, prev)
		}
	}

	for _, sink := range s.sinks {
		sink.Emit(sample, severity)
	}
}

// FailStreak 当前连续失败次数
func (s *Scheduler) FailStreak() int {
	s.streakMu.Lock()
	defer s.streakMu.Unlock()
	return s.failStreak
}

func (s *Scheduler) bumpStreak() int {
	s.streakMu.Lock()
	defer s.streakMu.Unlock()
	s.failStreak++
	return s.failStreak
}

func (s *Scheduler) resetStreak() int {
	s.streakMu.Lock()
	defer s.streakMu.Unlock()
	prev := s.failStreak
	s.failStreak = 0
	return prev
}
