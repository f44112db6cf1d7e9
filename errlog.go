package lasmerge

import (
	"fmt"
	"sync"
)

// 批处理错误日志：只追加，可被裁剪协程并发写入
type ErrorLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *ErrorLog) Append(msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, msg)
	l.mu.Unlock()
}

func (l *ErrorLog) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// 返回当前条目的副本
func (l *ErrorLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}
