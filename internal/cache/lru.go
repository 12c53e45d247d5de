// 包 cache：进程内带 TTL 的 LRU，供会话状态与坐标命中结果复用
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU：容量上限 + 逐项过期；并发安全
// 约束：ttl<=0 表示不过期；容量<=0 时按 1 处理
type LRU[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[K]*list.Element
	now  func() time.Time
}

type entry[K comparable, V any] struct {
	k   K
	v   V
	exp time.Time
}

func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[K, V]{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[K]*list.Element), now: time.Now}
}

func (c *LRU[K, V]) expired(e entry[K, V]) bool {
	return c.ttl > 0 && !c.now().Before(e.exp)
}

// Get：命中且未过期时返回值并刷新为最近使用
func (c *LRU[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	el, ok := c.dict[k]
	if !ok {
		return zero, false
	}
	it := el.Value.(entry[K, V])
	if c.expired(it) {
		c.lst.Remove(el)
		delete(c.dict, k)
		return zero, false
	}
	c.lst.MoveToFront(el)
	return it.v, true
}

// Set：写入或覆盖，超出容量时淘汰最久未使用项
func (c *LRU[K, V]) Set(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(k, v)
}

// GetOrCreate：在同一把锁内读取或以 mk 创建新值，并发调用只会创建一次；命中时顺延过期时间
func (c *LRU[K, V]) GetOrCreate(k K, mk func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.dict[k]; ok {
		it := el.Value.(entry[K, V])
		if !c.expired(it) {
			it.exp = c.now().Add(c.ttl)
			el.Value = it
			c.lst.MoveToFront(el)
			return it.v
		}
	}
	v := mk()
	c.put(k, v)
	return v
}

func (c *LRU[K, V]) put(k K, v V) {
	it := entry[K, V]{k: k, v: v, exp: c.now().Add(c.ttl)}
	if el, ok := c.dict[k]; ok {
		el.Value = it
		c.lst.MoveToFront(el)
		return
	}
	c.dict[k] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back == nil {
			break
		}
		delete(c.dict, back.Value.(entry[K, V]).k)
		c.lst.Remove(back)
	}
}

func (c *LRU[K, V]) Delete(k K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.dict[k]; ok {
		c.lst.Remove(el)
		delete(c.dict, k)
	}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

// Purge：清空全部条目（数据集重载后坐标缓存失效）
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst.Init()
	c.dict = make(map[K]*list.Element)
}
