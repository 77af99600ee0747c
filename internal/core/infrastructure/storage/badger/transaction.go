// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
)

// 确保 Transaction 实现了 storage.BadgerTransaction 接口
var _ storage.BadgerTransaction = (*Transaction)(nil)

// Transaction 实现BadgerTransaction接口
//
// 生命周期由 Store.RunInTransaction 管理：fn 返回后事务被统一
// 提交或回滚，Transaction 实例不得逃逸到回调之外。
type Transaction struct {
	txn *badgerdb.Txn
}

// Get 获取指定键的值
// 如果键不存在，返回nil值和nil错误
func (t *Transaction) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, nil // 键不存在时返回nil值和nil错误
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Set 设置键值对
func (t *Transaction) Set(key, value []byte) error {
	return t.txn.Set(key, value)
}

// Delete 删除指定键的值
// 如果键不存在，不会返回错误
func (t *Transaction) Delete(key []byte) error {
	return t.txn.Delete(key)
}

// Exists 检查键是否存在
func (t *Transaction) Exists(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
