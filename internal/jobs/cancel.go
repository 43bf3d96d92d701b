package jobs

import "sync/atomic"

// CancelFlag は呼び出し側が立て、ワーカーがページ処理の合間に確認するフラグです。
type CancelFlag struct {
	set atomic.Bool
}

// Set はキャンセルを要求します。
func (f *CancelFlag) Set() { f.set.Store(true) }

// Cancelled は pdf.Canceller を満たします。
func (f *CancelFlag) Cancelled() bool { return f.set.Load() }
