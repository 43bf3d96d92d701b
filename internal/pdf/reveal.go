package pdf

import (
	"io"

	"github.com/pkg/browser"
)

// Revealer は出力フォルダをOSのファイルマネージャーで開きます。
type Revealer interface {
	Reveal(path string) error
}

// BrowserRevealer は open / xdg-open / explorer に処理を委ねます。
type BrowserRevealer struct{}

func (BrowserRevealer) Reveal(path string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenFile(path)
}

// NoopRevealer は何もしません（ヘッドレス環境向け）。
type NoopRevealer struct{}

func (NoopRevealer) Reveal(string) error { return nil }
