// Package jobs はページ操作をバックグラウンドで実行し、その状態を管理します。
package jobs

import (
	"time"

	"github.com/yourusername/page-forge/internal/pdf"
)

// Status はジョブの実行状態を表します。
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "done"
	StatusFailed    Status = "error"
	StatusCancelled Status = "cancelled"
)

// ProgressInfo は進捗の補足情報を表します。
type ProgressInfo struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage,omitempty"`
}

// ErrorInfo はジョブ失敗時のエラー情報を保持します。
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Record はジョブの現在状態を表します。
type Record struct {
	JobID     string              `json:"jobId"`
	Operation pdf.OperationType   `json:"operation"`
	Status    Status              `json:"status"`
	Progress  ProgressInfo        `json:"progress"`
	Messages  []pdf.StatusMessage `json:"messages"`
	Result    *pdf.Result         `json:"result,omitempty"`
	Error     *ErrorInfo          `json:"error,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	ExpiresAt time.Time           `json:"expiresAt,omitempty"`
}

// Done は終端状態かどうかを返します。
func (r *Record) Done() bool {
	switch r.Status {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func statusFor(kind pdf.MessageKind) Status {
	switch kind {
	case pdf.KindFinished:
		return StatusSucceeded
	case pdf.KindCancelled:
		return StatusCancelled
	default:
		return StatusFailed
	}
}
