package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgerconfig "github.com/weisyn/lens/internal/config/storage/badger"
	interfaces "github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/lens/pkg/types"
)

// newTestStore 内存模式的存储实例
func newTestStore(t *testing.T) interfaces.BadgerStore {
	t.Helper()
	inMemory := true
	cfg := badgerconfig.New(&types.UserStorageConfig{InMemory: &inMemory})

	store, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("session/address"), []byte("0xaaaa")))

	value, err := store.Get(ctx, []byte("session/address"))
	require.NoError(t, err)
	assert.Equal(t, "0xaaaa", string(value))
}

func TestGetMissingKeyIsNotError(t *testing.T) {
	store := newTestStore(t)

	value, err := store.Get(context.Background(), []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestDeleteAndExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))

	exists, err := store.Exists(ctx, []byte("k"))
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, []byte("k")))
	// 删除不存在的键也不是错误
	require.NoError(t, store.Delete(ctx, []byte("k")))

	exists, err = store.Exists(ctx, []byte("k"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPrefixScan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("session/address"), []byte("0xaaaa")))
	require.NoError(t, store.Set(ctx, []byte("session/registry_key"), []byte("key")))
	require.NoError(t, store.Set(ctx, []byte("poll/sequence"), []byte("7")))

	result, err := store.PrefixScan(ctx, []byte("session/"))
	require.NoError(t, err)

	assert.Len(t, result, 2)
	assert.Equal(t, []byte("0xaaaa"), result["session/address"])
	assert.NotContains(t, result, "poll/sequence")
}

func TestTransactionCommitsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx interfaces.BadgerTransaction) error {
		if err := tx.Set([]byte("a"), []byte("1")); err != nil {
			return err
		}
		return tx.Set([]byte("b"), []byte("2"))
	})
	require.NoError(t, err)

	a, _ := store.Get(ctx, []byte("a"))
	b, _ := store.Get(ctx, []byte("b"))
	assert.Equal(t, "1", string(a))
	assert.Equal(t, "2", string(b))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx interfaces.BadgerTransaction) error {
		if err := tx.Set([]byte("a"), []byte("1")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// 回滚后什么都没写进去
	value, err := store.Get(ctx, []byte("a"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestWriteAfterCloseRejected(t *testing.T) {
	inMemory := true
	cfg := badgerconfig.New(&types.UserStorageConfig{InMemory: &inMemory})
	store, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	// 重复关闭是无害的
	require.NoError(t, store.Close())

	assert.Error(t, store.Set(context.Background(), []byte("k"), []byte("v")))
}
