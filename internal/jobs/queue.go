package jobs

import (
	"sync"

	"github.com/yourusername/page-forge/internal/pdf"
)

// Queue はワーカーから呼び出し側へメッセージを届ける無制限の FIFO です。
// Report も Drain もブロックしません。
type Queue struct {
	mu    sync.Mutex
	items []pdf.StatusMessage
}

// NewQueue は空の Queue を返します。
func NewQueue() *Queue {
	return &Queue{}
}

// Report はメッセージを末尾に積みます（pdf.Reporter の実装）。
func (q *Queue) Report(msg pdf.StatusMessage) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()
}

// Drain は溜まっているメッセージを到着順にすべて取り出します。
func (q *Queue) Drain() []pdf.StatusMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len は未取得のメッセージ数を返します。
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
