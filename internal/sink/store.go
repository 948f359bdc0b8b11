package sink

import (
	"netwatch/internal/logger"
	"netwatch/internal/monitor"
	"netwatch/internal/storage"
)

// StoreSink 样本库输出端，把每条分级样本追加到 SQLite
type StoreSink struct {
	store *storage.Storage
}

// NewStore 创建样本库输出端
// 数据库连接由调用方管理，Close 不会关闭它
func NewStore(store *storage.Storage) *StoreSink {
	return &StoreSink{store: store}
}

// Name 返回 sink 名称
func (s *StoreSink) Name() string {
	return "store"
}

// Emit 写入一条分级样本，写入失败只记日志不中断监控
func (s *StoreSink) Emit(sample *monitor.Sample, severity monitor.Severity) {
	if err := s.store.InsertSample(sample, severity); err != nil {
		logger.Warnf("样本入库失败: %v", err)
	}
}

// Close 关闭输出端（数据库连接由调用方关闭）
func (s *StoreSink) Close() error {
	return nil
}
