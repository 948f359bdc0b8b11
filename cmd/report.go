package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"netwatch/internal/config"
	"netwatch/internal/storage"
)

var (
	reportSince string

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "输出存储样本的在线率汇总",
		Long:  "从 SQLite 样本库统计一段时间内的检测次数、在线率和延迟分布",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport()
		},
	}
)

func runReport() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	applyFlags(cfg)

	window, err := config.ParseSpanDuration(reportSince)
	if err != nil {
		return fmt.Errorf("无效的 --since: %w", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Summarize(cfg.Monitor.Host, time.Now().Add(-window))
	if err != nil {
		return err
	}

	fmt.Printf("目标:       %s\n", summary.Target)
	fmt.Printf("统计窗口:   最近 %s\n", config.FormatSpan(int(window.Seconds())))
	fmt.Printf("检测次数:   %d\n", summary.Total)
	if summary.Total == 0 {
		fmt.Println("该窗口内没有样本")
		return nil
	}
	fmt.Printf("在线率:     %.2f%% (在线 %d / 中断 %d)\n", summary.UptimePct, summary.Up, summary.Down)
	fmt.Printf("超阈值:     %d 次\n", summary.Warn)
	fmt.Printf("延迟:       avg %.1fms / min %.1fms / max %.1fms\n",
		summary.AvgLatencyMs, summary.MinLatencyMs, summary.MaxLatencyMs)

	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportSince, "since", "24h", "统计窗口，支持后缀 s/m/h/d/w")
}
