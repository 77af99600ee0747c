// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/weisyn/lens/internal/config/storage/badger"
	log "github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
	"go.uber.org/zap"
)

// 确保 Store 实现了 interfaces.BadgerStore 接口
var _ interfaces.BadgerStore = (*Store)(nil)

// Store 实现BadgerStore接口
//
// 存储体量很小（会话键 + 少量簿记），配置刻意保守：
// 小缓存、小 memtable，不与宿主其他组件争内存。
type Store struct {
	db         *badgerdb.DB
	config     *badgerconfig.Config
	logger     log.Logger
	cancelFunc context.CancelFunc // 用于取消后台GC任务的函数

	// 避免 Close 过程中仍被写入触发 Badger 内部断言退出
	closing int32
	writeWg sync.WaitGroup
}

// New 创建新的BadgerStore实例
// 初始化数据库并启动维护任务
func New(config *badgerconfig.Config, logger log.Logger) (interfaces.BadgerStore, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	store := &Store{
		config: config,
		logger: logger,
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.GetPath()
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("创建BadgerDB数据目录失败 %s: %w", dataDir, err)
		}
		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)

		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = config.IsSyncWritesEnabled()
	}

	// 会话键存储体量极小：压低缓存与memtable，减少常驻内存
	opts.BlockCacheSize = 8 << 20
	opts.IndexCacheSize = 8 << 20
	opts.NumMemtables = 2
	opts.MemTableSize = 8 << 20
	opts.ValueLogFileSize = 64 << 20
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开BadgerDB失败: %w", err)
	}
	store.db = db

	// 启动后台维护任务（value log GC）
	ctx, cancel := context.WithCancel(context.Background())
	store.cancelFunc = cancel
	go store.maintenanceLoop(ctx)

	return store, nil
}

// maintenanceLoop 周期性执行 value log GC
func (s *Store) maintenanceLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ErrNoRewrite 表示没有可回收空间，属正常情况
			if err := s.db.RunValueLogGC(0.5); err != nil && err != badgerdb.ErrNoRewrite {
				s.logger.Warnf("BadgerDB value log GC失败: %v", err)
			}
		}
	}
}

// beginWrite 在写入前登记，Close 时等待在途写入完成
func (s *Store) beginWrite() error {
	if atomic.LoadInt32(&s.closing) == 1 {
		return fmt.Errorf("存储正在关闭")
	}
	s.writeWg.Add(1)
	return nil
}

// Close 关闭BadgerDB数据库连接
// 确保所有待处理的事务被提交，数据被正确写入磁盘
func (s *Store) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil // 已在关闭
	}

	// 停止后台任务并等待在途写入完成
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.writeWg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	s.logger.Info("BadgerDB存储已关闭")
	return nil
}

// Get 获取指定键的值
// 如果键不存在，返回nil值和nil错误
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return nil // 键不存在时返回nil值和nil错误
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("读取键失败: %w", err)
	}
	return value, nil
}

// Set 设置键值对
// 如果键已存在，将覆盖原有值
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL 设置键值对并指定过期时间
// ttl为0表示永不过期
func (s *Store) SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	if err := s.beginWrite(); err != nil {
		return err
	}
	defer s.writeWg.Done()

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(key, value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("写入键失败: %w", err)
	}
	return nil
}

// Delete 删除指定键的值
// 如果键不存在，不会返回错误
func (s *Store) Delete(ctx context.Context, key []byte) error {
	if err := s.beginWrite(); err != nil {
		return err
	}
	defer s.writeWg.Done()

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("删除键失败: %w", err)
	}
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	exists := false
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return nil
			}
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("检查键失败: %w", err)
	}
	return exists, nil
}

// PrefixScan 按前缀扫描键值对
// 返回所有键以指定前缀开头的键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(item.Key())] = value
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("前缀扫描失败: %w", err)
	}
	return result, nil
}

// RunInTransaction 在事务中执行操作
// fn函数在事务上下文中执行，可以执行多个原子操作
// 如果fn返回错误，事务将被回滚；成功则提交
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.BadgerTransaction) error) error {
	if err := s.beginWrite(); err != nil {
		return err
	}
	defer s.writeWg.Done()

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return fn(&Transaction{txn: txn})
	})
}

// ===== 日志适配 =====

// badgerLogger 把 BadgerDB 内部日志接到统一日志接口
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("badger: "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("badger: "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	// Badger 的 info 输出偏啰嗦，降级为 debug
	l.logger.Debugf("badger: "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("badger: "+format, args...)
}

// nopLogger 无日志依赖时的空实现
type nopLogger struct{}

func (nopLogger) Debug(string)                          {}
func (nopLogger) Debugf(string, ...interface{})         {}
func (nopLogger) Info(string)                           {}
func (nopLogger) Infof(string, ...interface{})          {}
func (nopLogger) Warn(string)                           {}
func (nopLogger) Warnf(string, ...interface{})          {}
func (nopLogger) Error(string)                          {}
func (nopLogger) Errorf(string, ...interface{})         {}
func (nopLogger) Fatal(string)                          {}
func (nopLogger) Fatalf(string, ...interface{})         {}
func (nopLogger) With(...interface{}) log.Logger        { return nopLogger{} }
func (nopLogger) Sync() error                           { return nil }
func (nopLogger) GetZapLogger() *zap.Logger             { return nil }
