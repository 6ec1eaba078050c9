package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Handler 将一段 AsciiMath 源码渲染为 HTML
type Handler func(source string, display bool) (string, error)

// Registry 代码块前缀 → Handler
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register 注册前缀，已存在时覆盖
func (r *Registry) Register(prefix string, h Handler) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return errors.New("prefix is empty")
	}
	if strings.ContainsAny(prefix, " \t`") {
		return errors.Errorf("prefix %q contains whitespace or backtick", prefix)
	}
	if h == nil {
		return errors.Errorf("handler for prefix %q is nil", prefix)
	}
	r.mu.Lock()
	r.handlers[prefix] = h
	r.mu.Unlock()
	return nil
}

// Unregister 注销前缀，返回是否存在
func (r *Registry) Unregister(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[prefix]
	delete(r.handlers, prefix)
	return ok
}

// UnregisterAll 注销全部前缀，可重复调用
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	r.handlers = make(map[string]Handler)
	r.mu.Unlock()
}

// Lookup 按 info string 的第一个词查找
func (r *Registry) Lookup(info string) (Handler, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[fields[0]]
	return h, ok
}

// Prefixes 已注册前缀（排序）
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
