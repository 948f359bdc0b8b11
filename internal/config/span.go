package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 时间跨度单位换算表
var spanUnits = map[byte]int{
	's': 1,
	'm': 60,
	'h': 60 * 60,
	'd': 60 * 60 * 24,
	'w': 60 * 60 * 24 * 7,
}

// ParseSpan 解析带后缀的时间跨度字符串，返回秒数
// 纯数字视为秒，支持后缀: s(秒) m(分) h(时) d(天) w(周)
// 例如: "90" -> 90, "1m" -> 60, "2d" -> 172800
func ParseSpan(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("时间跨度不能为空")
	}

	// 无后缀，按秒处理
	last := value[len(value)-1]
	if last >= '0' && last <= '9' {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("无效的时间跨度: %s", value)
		}
		if n <= 0 {
			return 0, fmt.Errorf("时间跨度必须大于0: %s", value)
		}
		return n, nil
	}

	factor, ok := spanUnits[last]
	if !ok {
		return 0, fmt.Errorf("无效的时间单位 '%c' (支持 s/m/h/d/w): %s", last, value)
	}

	n, err := strconv.Atoi(value[:len(value)-1])
	if err != nil {
		return 0, fmt.Errorf("无效的时间跨度: %s", value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("时间跨度必须大于0: %s", value)
	}

	return n * factor, nil
}

// ParseSpanDuration 解析时间跨度并返回 time.Duration
func ParseSpanDuration(value string) (time.Duration, error) {
	secs, err := ParseSpan(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// FormatSpan 把秒数格式化为可读的 时/分/秒 形式
// 例如: 3661 -> "1h 1m 1s"
func FormatSpan(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}

	var parts []string
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		parts = append(parts, strconv.Itoa(hours)+"h")
	}
	if minutes > 0 {
		parts = append(parts, strconv.Itoa(minutes)+"m")
	}
	if secs > 0 {
		parts = append(parts, strconv.Itoa(secs)+"s")
	}

	return strings.Join(parts, " ")
}
