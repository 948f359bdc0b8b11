package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"netwatch/internal/config"
	"netwatch/internal/logger"
	"netwatch/internal/monitor"
	"netwatch/internal/storage"
)

// Server 状态查询 API 服务器
type Server struct {
	cfg       *config.Config
	scheduler *monitor.Scheduler
	store     *storage.Storage
	router    *mux.Router
	server    *http.Server
	startTime time.Time
}

// NewServer 创建 API 服务器
// store 可以为 nil（存储被禁用时样本查询返回空）
func NewServer(cfg *config.Config, scheduler *monitor.Scheduler, store *storage.Storage, port int) *Server {
	s := &Server{
		cfg:       cfg,
		scheduler: scheduler,
		store:     store,
		router:    mux.NewRouter(),
		startTime: time.Now(),
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// registerRoutes 注册路由
func (s *Server) registerRoutes() {
	s.router.Use(corsMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleGetStatus).Methods("GET")
	api.HandleFunc("/samples", s.handleGetSamples).Methods("GET")
	api.HandleFunc("/summary", s.handleGetSummary).Methods("GET")
	api.HandleFunc("/logs", s.handleGetLogs).Methods("GET")
}

// Start 启动 API 服务器（非阻塞）
func (s *Server) Start() error {
	logger.Infof("[API] 状态接口启动: http://localhost%s", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("[API] 服务器错误: %v", err)
		}
	}()
	return nil
}

// Stop 停止 API 服务器
func (s *Server) Stop() error {
	logger.Info("[API] 正在停止状态接口...")
	return s.server.Close()
}

// handleGetStatus 返回运行状态与最新样本
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"running":      s.scheduler.IsRunning(),
		"fail_streak":  s.scheduler.FailStreak(),
		"host":         s.cfg.Monitor.Host,
		"probe":        s.cfg.Monitor.Probe,
		"interval":     s.cfg.Monitor.Interval,
		"threshold":    s.cfg.Monitor.Threshold,
		"started_at":   s.startTime.Format("2006-01-02 15:04:05"),
		"watched_secs": int(time.Since(s.startTime).Seconds()),
	}

	if s.store != nil {
		if samples, err := s.store.RecentSamples(s.cfg.Monitor.Host, 1); err == nil && len(samples) > 0 {
			status["last_sample"] = samples[0]
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// handleGetSamples 返回最近的样本列表
func (s *Server) handleGetSamples(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []storage.StoredSample{})
		return
	}

	limit := parseLimit(r, 100)
	samples, err := s.store.RecentSamples(s.cfg.Monitor.Host, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if samples == nil {
		samples = []storage.StoredSample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

// handleGetSummary 返回一段时间内的汇总（?since=24h）
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("样本存储未启用"))
		return
	}

	span := r.URL.Query().Get("since")
	if span == "" {
		span = "24h"
	}
	window, err := config.ParseSpanDuration(span)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := s.store.Summarize(s.cfg.Monitor.Host, time.Now().Add(-window))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleGetLogs 返回内存缓冲中最近的运行日志
func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	logs := logger.GetBuffer().GetLogs(limit)
	if logs == nil {
		logs = []logger.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func parseLimit(r *http.Request, defaultVal int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// corsMiddleware CORS 中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
