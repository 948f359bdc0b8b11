package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"netwatch/internal/monitor"
)

// Storage SQLite 样本存储
type Storage struct {
	db *sql.DB
	mu sync.Mutex
}

// StoredSample 存储中的样本行
type StoredSample struct {
	ID        int64     `json:"id"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs float64   `json:"latency_ms"`
	Reachable bool      `json:"reachable"`
	Severity  string    `json:"severity"`
	Err       string    `json:"error,omitempty"`
}

// Summary 一段时间内的检测汇总
type Summary struct {
	Target       string  `json:"target"`
	Total        int     `json:"total"`
	Up           int     `json:"up"`
	Down         int     `json:"down"`
	Warn         int     `json:"warn"`
	UptimePct    float64 `json:"uptime_pct"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	MinLatencyMs float64 `json:"min_latency_ms"`
	MaxLatencyMs float64 `json:"max_latency_ms"`
}

var (
	instance   *Storage
	instanceMu sync.Mutex
)

// GetStorage 获取全局存储实例（未初始化时返回nil）
func GetStorage() *Storage {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// Init 初始化全局 SQLite 存储
func Init(dbPath string) (*Storage, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	store, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	instance = store
	return instance, nil
}

// Open 打开指定路径的样本库（不注册为全局实例）
func Open(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接 SQLite 失败: %w", err)
	}

	store := &Storage{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}

	return store, nil
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// createTables 创建样本表
func (s *Storage) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			target TEXT NOT NULL,
			ts INTEGER NOT NULL,
			latency_ms REAL NOT NULL,
			reachable INTEGER NOT NULL,
			severity TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_samples_target_ts ON samples(target, ts);
	`)
	return err
}

// InsertSample 追加一条分级样本
func (s *Storage) InsertSample(sample *monitor.Sample, severity monitor.Severity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reachable := 0
	if sample.Reachable {
		reachable = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO samples (target, ts, latency_ms, reachable, severity, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sample.Target, sample.Timestamp.Unix(), sample.LatencyMs,
		reachable, severity.String(), sample.Err,
	)
	if err != nil {
		return fmt.Errorf("写入样本失败: %w", err)
	}
	return nil
}

// RecentSamples 查询最近的N条样本（按时间倒序）
func (s *Storage) RecentSamples(target string, limit int) ([]StoredSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, target, ts, latency_ms, reachable, severity, error
		 FROM samples WHERE target = ?
		 ORDER BY ts DESC, id DESC LIMIT ?`,
		target, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("查询样本失败: %w", err)
	}
	defer rows.Close()

	var samples []StoredSample
	for rows.Next() {
		var row StoredSample
		var ts int64
		var reachable int
		if err := rows.Scan(&row.ID, &row.Target, &ts, &row.LatencyMs,
			&reachable, &row.Severity, &row.Err); err != nil {
			return nil, fmt.Errorf("读取样本失败: %w", err)
		}
		row.Timestamp = time.Unix(ts, 0)
		row.Reachable = reachable == 1
		samples = append(samples, row)
	}

	return samples, rows.Err()
}

// Summarize 统计指定时间之后的样本
func (s *Storage) Summarize(target string, since time.Time) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &Summary{Target: target}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(reachable), 0),
		        COALESCE(SUM(CASE WHEN severity = 'WARN' THEN 1 ELSE 0 END), 0)
		 FROM samples WHERE target = ? AND ts >= ?`,
		target, since.Unix(),
	).Scan(&summary.Total, &summary.Up, &summary.Warn)
	if err != nil {
		return nil, fmt.Errorf("统计样本失败: %w", err)
	}

	summary.Down = summary.Total - summary.Up
	if summary.Total > 0 {
		summary.UptimePct = float64(summary.Up) / float64(summary.Total) * 100
	}

	var avg, min, max sql.NullFloat64
	err = s.db.QueryRow(
		`SELECT AVG(latency_ms), MIN(latency_ms), MAX(latency_ms)
		 FROM samples WHERE target = ? AND ts >= ? AND reachable = 1`,
		target, since.Unix(),
	).Scan(&avg, &min, &max)
	if err != nil {
		return nil, fmt.Errorf("统计延迟失败: %w", err)
	}

	summary.AvgLatencyMs = avg.Float64
	summary.MinLatencyMs = min.Float64
	summary.MaxLatencyMs = max.Float64

	return summary, nil
}
