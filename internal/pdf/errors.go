package pdf

import "fmt"

// エラーコード一覧です。
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodePathTooLong  = "PATH_TOO_LONG"
	CodeInvalidRange = "INVALID_RANGE"
	CodePDFIO        = "PDF_IO"
	CodeRevealFailed = "REVEAL_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

// MaxPathLength は生成する出力パスの最大文字数です。
const MaxPathLength = 255

// Error は呼び出し側に返すエラー情報です。
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
