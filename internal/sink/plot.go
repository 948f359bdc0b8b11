package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/guptarohit/asciigraph"

	"netwatch/internal/config"
	"netwatch/internal/logger"
	"netwatch/internal/monitor"
)

// maxPlotPoints 图表点数上限（15秒间隔下约24小时）
const maxPlotPoints = 5760

// PlotOptions 图表选项
type PlotOptions struct {
	Host      string
	Threshold int  // 延迟阈值（毫秒）
	Interval  int  // 检测间隔（秒）
	Window    int  // 图表窗口（秒）
	Dark      bool // 暗色模式
	Height    int  // 图表高度（行数），0取默认值
}

// PlotSink 终端时序图输出端
// 维护一个滚动窗口内的延迟序列，每条样本到达后重绘
type PlotSink struct {
	opts      PlotOptions
	points    int // 窗口内最多保留的样本点数
	data      []float64
	downCount int
	warnCount int
	last      *monitor.Sample
	out       io.Writer
}

// NewPlot 创建终端图表输出端
func NewPlot(opts PlotOptions) *PlotSink {
	// 窗口至少为两个检测间隔
	if opts.Window < 2*opts.Interval {
		opts.Window = 2 * opts.Interval
		logger.Warnf("图表窗口不能小于2倍检测间隔，已调整为: %s", config.FormatSpan(opts.Window))
	}

	points := opts.Window / opts.Interval
	// 点数过多会导致终端重绘卡顿
	if points > maxPlotPoints {
		logger.Warnf("图表窗口过大: %d 个点（缩减为 %d 个点）", points, maxPlotPoints)
		points = maxPlotPoints
	}

	if opts.Height <= 0 {
		opts.Height = 15
	}

	return &PlotSink{
		opts:   opts,
		points: points,
		data:   make([]float64, 0, points),
		out:    os.Stdout,
	}
}

// Name 返回 sink 名称
func (p *PlotSink) Name() string {
	return fmt.Sprintf("plot(窗口 %s)", config.FormatSpan(p.opts.Window))
}

// Emit 把样本加入滚动窗口并重绘
func (p *PlotSink) Emit(s *monitor.Sample, severity monitor.Severity) {
	// 不可达样本以0值绘制
	p.data = append(p.data, s.LatencyMs)
	if len(p.data) > p.points {
		p.data = p.data[1:]
	}

	switch severity {
	case monitor.SeverityDown:
		p.downCount++
	case monitor.SeverityWarn:
		p.warnCount++
	}
	p.last = s

	// 清屏后整幅重绘
	fmt.Fprint(p.out, "\x1b[H\x1b[2J")
	fmt.Fprintln(p.out, p.render())
}

// render 绘制当前窗口的延迟曲线
func (p *PlotSink) render() string {
	if len(p.data) == 0 {
		return ""
	}

	status := "DOWN"
	if p.last != nil && p.last.Reachable {
		status = fmt.Sprintf("%.1fms", p.last.LatencyMs)
	}

	caption := fmt.Sprintf("%s 延迟(ms) | 阈值 %dms | 窗口 %s | 最新 %s | 超阈值 %d 次 | 中断 %d 次",
		p.opts.Host, p.opts.Threshold, config.FormatSpan(p.opts.Window),
		status, p.warnCount, p.downCount)

	series := asciigraph.Blue
	label := asciigraph.Default
	if p.opts.Dark {
		series = asciigraph.Cyan
		label = asciigraph.White
	}

	return asciigraph.Plot(p.data,
		asciigraph.Height(p.opts.Height),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(series),
		asciigraph.LabelColor(label),
		asciigraph.CaptionColor(label),
	)
}

// Close 关闭输出端
func (p *PlotSink) Close() error {
	return nil
}
