package pdf

// MessageKind はステータスメッセージの種別です。
type MessageKind string

const (
	KindInfo      MessageKind = "info"
	KindProgress  MessageKind = "progress"
	KindWarning   MessageKind = "warning"
	KindFinished  MessageKind = "finished"
	KindCancelled MessageKind = "cancelled"
	KindFailed    MessageKind = "failed"
)

// FinishedText は正常終了時に送るメッセージ本文です。
const FinishedText = "Operation finished!"

// StatusMessage はワーカーから呼び出し側へ送るメッセージです。
type StatusMessage struct {
	Kind    MessageKind `json:"kind"`
	Text    string      `json:"text"`
	IsError bool        `json:"isError"`
	Code    string      `json:"code,omitempty"`
	Stage   string      `json:"stage,omitempty"`
	Percent int         `json:"percent,omitempty"`
}

// Terminal は操作のライフサイクルを終了させるメッセージかどうかを返します。
func (m StatusMessage) Terminal() bool {
	switch m.Kind {
	case KindFinished, KindCancelled, KindFailed:
		return true
	}
	return false
}

// Reporter はステータスメッセージの送信先です。並行に呼ばれても安全である必要があります。
type Reporter interface {
	Report(msg StatusMessage)
}

// ReporterFunc は関数を Reporter として扱うためのアダプターです。
type ReporterFunc func(msg StatusMessage)

func (f ReporterFunc) Report(msg StatusMessage) { f(msg) }

// Canceller はキャンセル要求の有無を返します。
type Canceller interface {
	Cancelled() bool
}

type neverCancelled struct{}

func (neverCancelled) Cancelled() bool { return false }

func infoMessage(text string) StatusMessage {
	return StatusMessage{Kind: KindInfo, Text: text}
}

func warningMessage(err *Error) StatusMessage {
	return StatusMessage{Kind: KindWarning, Text: err.Error(), IsError: true, Code: err.Code}
}

func failedMessage(err *Error) StatusMessage {
	return StatusMessage{Kind: KindFailed, Text: err.Error(), IsError: true, Code: err.Code}
}
