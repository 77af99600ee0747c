// Package sandbox 实现生成界面进入隔离渲染上下文的注入
//
// 每次注入整体替换托管文档：提供者引导脚本先于标记主体写入，
// 保证注入标记内的任何脚本运行之前提供者已可达。
package sandbox

import (
	"sync"
)

// DocumentHost 托管文档与版本号
//
// 版本号单调递增，渲染端据此判断是否需要整体重载。
// 观察者在每次替换后收到新版本号；慢观察者丢中间版本，
// 只保证最终看到最新的。
type DocumentHost struct {
	mu       sync.RWMutex
	markup   string
	revision uint64

	watcherMu sync.Mutex
	watchers  map[uint64]chan uint64
	nextID    uint64
}

// NewDocumentHost 创建空文档宿主
func NewDocumentHost() *DocumentHost {
	return &DocumentHost{
		watchers: make(map[uint64]chan uint64),
	}
}

// Swap 原子替换托管文档，返回新版本号
func (h *DocumentHost) Swap(markup string) uint64 {
	h.mu.Lock()
	h.markup = markup
	h.revision++
	revision := h.revision
	h.mu.Unlock()

	h.broadcast(revision)
	return revision
}

// Current 返回当前托管文档与版本号
func (h *DocumentHost) Current() (string, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.markup, h.revision
}

// Watch 订阅文档替换通知，返回订阅 ID 与通知通道
func (h *DocumentHost) Watch() (uint64, <-chan uint64) {
	h.watcherMu.Lock()
	defer h.watcherMu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan uint64, 1)
	h.watchers[id] = ch
	return id, ch
}

// Unwatch 取消订阅
func (h *DocumentHost) Unwatch(id uint64) {
	h.watcherMu.Lock()
	defer h.watcherMu.Unlock()
	if ch, ok := h.watchers[id]; ok {
		delete(h.watchers, id)
		close(ch)
	}
}

// broadcast 把新版本号推给所有观察者
// 通道满时先腾掉旧版本号再放新值，观察者永远拿到最新版本
func (h *DocumentHost) broadcast(revision uint64) {
	h.watcherMu.Lock()
	defer h.watcherMu.Unlock()
	for _, ch := range h.watchers {
		select {
		case ch <- revision:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- revision
		}
	}
}
