package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 主配置结构
type Config struct {
	Monitor MonitorConfig
	Log     LogConfig
	Webhook WebhookConfig
	DBPath  string // SQLite 样本库路径（为空则禁用存储）
	PidPath string // PID 文件路径（用于 --stop 停止运行中的实例）
	Summary SummaryConfig
}

// MonitorConfig 监控配置
type MonitorConfig struct {
	Host      string // 检测目标（主机名或IP）
	Probe     string // 检测类型: ping / tcp / http
	Interval  int    // 检测间隔（秒）
	Threshold int    // 延迟告警阈值（毫秒）
	Timeout   int    // 单次检测超时（秒）
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string
	Path    string // 日志文件路径（为空则不写文件）
	MaxMB   int    // 单个日志文件大小上限（MB）
	MaxDays int    // 日志保留天数
}

// WebhookConfig Webhook 告警配置
type WebhookConfig struct {
	URL           string `json:"url"`
	Method        string `json:"method"`
	Timeout       int    `json:"timeout"`
	Retry         int    `json:"retry"`
	FailCount     int    `json:"fail_count"`     // 连续失败多少次触发告警
	SilencePeriod int    `json:"silence_period"` // 静默期（秒），告警后暂停重复告警的时间
}

// SummaryConfig 定时汇总配置
type SummaryConfig struct {
	Enabled bool
	Cron    string // cron 表达式（标准5位格式）
}

// Load 从 .env 文件/环境变量加载基础配置
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}

	// 监控默认值（可被命令行flags覆盖）
	cfg.Monitor.Host = getEnvString("HOST", "google.com")
	cfg.Monitor.Probe = getEnvString("PROBE", "ping")
	cfg.Monitor.Interval = getEnvInt("INTERVAL", 15)
	cfg.Monitor.Threshold = getEnvInt("THRESHOLD", 100)
	cfg.Monitor.Timeout = getEnvInt("TIMEOUT", 5)

	// 日志配置（LOGLEVEL 作为 --level 未指定时的回退）
	cfg.Log.Level = getEnvString("LOGLEVEL", "info")
	cfg.Log.MaxMB = getEnvInt("LOG_MAX_MB", 10)
	cfg.Log.MaxDays = getEnvInt("LOG_MAX_DAYS", 30)

	// 存储与进程文件
	cfg.DBPath = getEnvString("DB_PATH", "./data/netwatch.db")
	cfg.PidPath = getEnvString("PID_PATH", filepath.Join(os.TempDir(), "netwatch.pid"))

	// Webhook 告警（URL 未配置则不启用）
	cfg.Webhook.URL = os.Getenv("WEBHOOK_URL")
	cfg.Webhook.Method = getEnvString("WEBHOOK_METHOD", "POST")
	cfg.Webhook.Timeout = getEnvInt("WEBHOOK_TIMEOUT", 10)
	cfg.Webhook.Retry = getEnvInt("WEBHOOK_RETRY", 3)
	cfg.Webhook.FailCount = getEnvInt("WEBHOOK_FAILCOUNT", 3)
	cfg.Webhook.SilencePeriod = getEnvInt("WEBHOOK_SILENCE", 300)

	// 定时汇总
	cfg.Summary.Enabled = getEnvBool("SUMMARY_ENABLED", true)
	cfg.Summary.Cron = getEnvString("SUMMARY_CRON", "0 8 * * *")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
