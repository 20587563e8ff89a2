package cache

import (
	"net/url"
	"strings"
	"sync"
)

// 键的分隔符与空参数占位符。
// 参数经过QueryEscape后不可能再出现这两个字符，
// 因此不同参数组合不会拼出相同的键。
const (
	keySeparator     = "|"
	emptyPlaceholder = "*"
)

// Cache 会话级响应缓存
// 无容量上限、无TTL、不做失效处理，条目随进程存活。
// 远端目录数据变化缓慢，会话内的陈旧读取是刻意接受的取舍。
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// New 创建缓存实例
func New() *Cache {
	return &Cache{
		entries: make(map[string]interface{}),
	}
}

// Key 根据操作名和全部有效参数构造确定性缓存键
// 空参数用占位符表示，保证"未传"与"传空串"命中同一条目
func Key(operation string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, operation)
	for _, p := range params {
		if p == "" {
			parts = append(parts, emptyPlaceholder)
			continue
		}
		parts = append(parts, url.QueryEscape(p))
	}
	return strings.Join(parts, keySeparator)
}

// Get 查询缓存
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok
}

// Put 写入缓存
func (c *Cache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// Len 返回当前条目数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
