package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netwatch/internal/api"
	"netwatch/internal/config"
	"netwatch/internal/logger"
	"netwatch/internal/monitor"
	"netwatch/internal/pidfile"
	"netwatch/internal/probe"
	"netwatch/internal/schedule"
	"netwatch/internal/sink"
	"netwatch/internal/storage"
)

var (
	host        string
	probeType   string
	intervalStr string
	thresholdMs int
	timeoutSecs int
	logFile     string
	consoleOut  bool
	plotWindow  string
	darkMode    bool
	stopFlag    bool
	logLevel    string
	dbPath      string
	noStore     bool
	enableWeb   bool
	apiPort     int

	rootCmd = &cobra.Command{
		Use:   "netwatch",
		Short: "网络可达性与延迟监控工具",
		Long: `netwatch 周期性检测目标主机的可达性与延迟，
按阈值分级后输出到控制台、日志文件、终端时序图等多个输出端，
并可选地存储样本历史、触发 Webhook 告警。`,
		Version: "1.0.0",
		Args:    cobra.NoArgs,
	}
)

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// RunE 在 init 中赋值，避免 rootCmd 与 runWatch 的初始化循环
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runWatch()
	}

	// host/db/level 同时服务于 report 子命令
	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&host, "host", "", "检测目标主机名或IP (默认 google.com，可用 HOST 环境变量覆盖)")
	pflags.StringVar(&dbPath, "db", "", "SQLite 样本库路径 (默认 ./data/netwatch.db)")
	pflags.StringVar(&logLevel, "level", "", "日志级别: debug/info/warn/error (默认取 LOGLEVEL 环境变量，再回退 info)")

	flags := rootCmd.Flags()
	flags.StringVar(&probeType, "probe", "", "检测类型: ping / tcp / http (默认 ping)")
	flags.StringVar(&intervalStr, "interval", "", "检测间隔，支持后缀 s/m/h/d/w (默认 15s)")
	flags.IntVar(&thresholdMs, "threshold", 0, "延迟告警阈值，单位毫秒 (默认 100)")
	flags.IntVar(&timeoutSecs, "timeout", 0, "单次检测超时，单位秒 (默认 5)")
	flags.StringVar(&logFile, "logfile", "", "日志文件路径，启用文件输出端")
	flags.BoolVar(&consoleOut, "console", false, "启用控制台输出端 (stderr)")
	flags.StringVar(&plotWindow, "plot", "", "启用终端时序图，可选指定窗口 (例如 --plot=2h，默认 24h)")
	flags.Lookup("plot").NoOptDefVal = "24h"
	flags.BoolVar(&darkMode, "dark", false, "时序图使用暗色配色")
	flags.BoolVar(&stopFlag, "stop", false, "停止正在运行的监控实例后立即退出")
	flags.BoolVar(&noStore, "no-store", false, "禁用样本存储")
	flags.BoolVar(&enableWeb, "web", false, "启用状态查询API")
	flags.IntVar(&apiPort, "port", 8080, "状态查询API端口")
}

// applyFlags 用命令行flags覆盖环境配置
func applyFlags(cfg *config.Config) {
	pflags := rootCmd.PersistentFlags()
	if pflags.Changed("host") {
		cfg.Monitor.Host = host
	}
	if pflags.Changed("level") {
		cfg.Log.Level = logLevel
	}
	if pflags.Changed("db") {
		cfg.DBPath = dbPath
	}

	flags := rootCmd.Flags()
	if flags.Changed("probe") {
		cfg.Monitor.Probe = probeType
	}
	if flags.Changed("threshold") {
		cfg.Monitor.Threshold = thresholdMs
	}
	if flags.Changed("timeout") {
		cfg.Monitor.Timeout = timeoutSecs
	}
	cfg.Log.Path = logFile
}

// validateMonitor 检查监控参数，环境变量和flags两条来源都经过这里
func validateMonitor(cfg *config.Config) error {
	if cfg.Monitor.Interval <= 0 {
		return fmt.Errorf("检测间隔必须大于0: %d", cfg.Monitor.Interval)
	}
	if cfg.Monitor.Timeout <= 0 {
		return fmt.Errorf("检测超时必须大于0: %d", cfg.Monitor.Timeout)
	}
	if cfg.Monitor.Threshold <= 0 {
		return fmt.Errorf("延迟阈值必须大于0: %d", cfg.Monitor.Threshold)
	}
	return nil
}

// runWatch 启动监控主流程
func runWatch() error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	applyFlags(cfg)

	// --stop: 通知运行中的实例退出，本进程不做任何检测
	if stopFlag {
		running, err := pidfile.SignalStop(cfg.PidPath)
		if err != nil {
			return err
		}
		if running {
			fmt.Println("已向运行中的监控实例发送停止信号")
		} else {
			fmt.Println("没有正在运行的监控实例")
		}
		return nil
	}

	logger.Init(cfg.Log.Level)

	// 解析检测间隔
	if intervalStr != "" {
		secs, err := config.ParseSpan(intervalStr)
		if err != nil {
			return fmt.Errorf("无效的 --interval: %w", err)
		}
		cfg.Monitor.Interval = secs
	}
	if err := validateMonitor(cfg); err != nil {
		return err
	}

	checker, err := probe.New(cfg.Monitor.Probe)
	if err != nil {
		return err
	}

	// 样本存储（report 子命令和状态API也依赖它）
	var store *storage.Storage
	if !noStore && cfg.DBPath != "" {
		store, err = storage.Init(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sinks, err := buildSinks(cfg, store)
	if err != nil {
		return err
	}

	scheduler := monitor.NewScheduler(checker, monitor.Options{
		Host:      cfg.Monitor.Host,
		Interval:  time.Duration(cfg.Monitor.Interval) * time.Second,
		Timeout:   time.Duration(cfg.Monitor.Timeout) * time.Second,
		Threshold: cfg.Monitor.Threshold,
	}, sinks)

	if err := scheduler.Start(); err != nil {
		return err
	}

	// 定时汇总任务
	var scheduleManager *schedule.Manager
	if store != nil && cfg.Summary.Enabled {
		scheduleManager = schedule.NewManager()
		job := schedule.NewSummaryJob(cfg.Monitor.Host, 24*time.Hour)
		if _, err := scheduleManager.AddJob(cfg.Summary.Cron, job); err != nil {
			logger.Warnf("添加定时汇总任务失败: %v", err)
		} else {
			scheduleManager.Start()
		}
	}

	// 状态查询API
	var apiServer *api.Server
	if enableWeb {
		apiServer = api.NewServer(cfg, scheduler, store, apiPort)
		if err := apiServer.Start(); err != nil {
			logger.Warnf("启动状态接口失败: %v", err)
		}
	}

	// 记录PID供 --stop 使用
	if err := pidfile.Write(cfg.PidPath); err != nil {
		logger.Warnf("%v", err)
	}
	defer pidfile.Remove(cfg.PidPath)

	// 等待停止信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("监控运行中，按 Ctrl+C 或执行 netwatch --stop 停止...")
	<-sigChan

	logger.Info("收到停止信号，正在关闭...")
	if apiServer != nil {
		apiServer.Stop()
	}
	if scheduleManager != nil {
		scheduleManager.Stop()
	}
	if err := scheduler.Stop(); err != nil {
		logger.Warnf("%v", err)
	}

	elapsed := int(time.Since(startTime).Seconds())
	logger.Infof("监控结束，共运行 %s", config.FormatSpan(elapsed))
	return nil
}

// buildSinks 按flags组装输出端
func buildSinks(cfg *config.Config, store *storage.Storage) ([]monitor.Sink, error) {
	var sinks []monitor.Sink

	if consoleOut {
		sinks = append(sinks, sink.NewConsole(cfg.Log.Level))
	}

	if cfg.Log.Path != "" {
		sinks = append(sinks, sink.NewFile(sink.FileOptions{
			Path:    cfg.Log.Path,
			Level:   cfg.Log.Level,
			MaxMB:   cfg.Log.MaxMB,
			MaxDays: cfg.Log.MaxDays,
		}))
	}

	if plotWindow != "" {
		windowSecs, err := config.ParseSpan(plotWindow)
		if err != nil {
			return nil, fmt.Errorf("无效的 --plot 窗口: %w", err)
		}
		sinks = append(sinks, sink.NewPlot(sink.PlotOptions{
			Host:      cfg.Monitor.Host,
			Threshold: cfg.Monitor.Threshold,
			Interval:  cfg.Monitor.Interval,
			Window:    windowSecs,
			Dark:      darkMode,
		}))
	}

	if !consoleOut && cfg.Log.Path == "" && plotWindow == "" {
		logger.Warn("未启用 --console / --logfile / --plot，分级样本只进入存储")
	}

	if store != nil {
		sinks = append(sinks, sink.NewStore(store))
	}

	if cfg.Webhook.URL != "" {
		sinks = append(sinks, sink.NewWebhook(&cfg.Webhook, cfg.Monitor.Probe))
	}

	return sinks, nil
}
