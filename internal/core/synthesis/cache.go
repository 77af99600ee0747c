package synthesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/crypto"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 CachingGenerator 实现了 SurfaceGenerator 接口
var _ synthesisiface.SurfaceGenerator = (*CachingGenerator)(nil)

// CachingGenerator 生成服务的可选缓存层
//
// 默认不启用：每个轮询周期整体重新生成是刻意保留的行为。
// 启用后按 keccak(address ‖ 规范化ABI JSON ‖ name) 做键——接口或
// 身份一变，键自然失配，不需要主动失效。
type CachingGenerator struct {
	inner  synthesisiface.SurfaceGenerator
	cache  *bigcache.BigCache
	logger log.Logger
}

// NewCachingGenerator 在已有生成器外包一层 bigcache 缓存
func NewCachingGenerator(config *synthesisconfig.Config, inner synthesisiface.SurfaceGenerator, logger log.Logger) (*CachingGenerator, error) {
	cacheConfig := bigcache.DefaultConfig(config.GetCacheTTL())
	cacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建界面缓存失败: %w", err)
	}
	return &CachingGenerator{inner: inner, cache: cache, logger: logger}, nil
}

// Generate 命中缓存直接返回，未命中落到内层生成器并回填
func (c *CachingGenerator) Generate(ctx context.Context, iface *types.ResolvedInterface) (*types.GeneratedSurface, error) {
	key, keyErr := surfaceCacheKey(iface)
	if keyErr == nil {
		if cached, err := c.cache.Get(key); err == nil {
			var surface types.GeneratedSurface
			if err := json.Unmarshal(cached, &surface); err == nil {
				if c.logger != nil {
					c.logger.Debugf("界面缓存命中: addr=%s", iface.Address)
				}
				return &surface, nil
			}
		}
	}

	surface, err := c.inner.Generate(ctx, iface)
	if err != nil {
		return nil, err
	}

	if keyErr == nil {
		if encoded, err := json.Marshal(surface); err == nil {
			// 回填失败只丢掉缓存机会，不影响结果
			_ = c.cache.Set(key, encoded)
		}
	}
	return surface, nil
}

// surfaceCacheKey 计算界面缓存键
func surfaceCacheKey(iface *types.ResolvedInterface) (string, error) {
	abiJSON, err := json.Marshal(iface.ABI)
	if err != nil {
		return "", err
	}

	hash := crypto.NewKeccakState()
	hash.Write([]byte(iface.Address))
	hash.Write(abiJSON)
	hash.Write([]byte(iface.Name))

	digest := make([]byte, 32)
	if _, err := hash.Read(digest); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", digest), nil
}
