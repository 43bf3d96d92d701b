package jobs

import (
	"fmt"

	"github.com/yourusername/page-forge/internal/pdf"
)

// Runner は操作を同期的に実行するものです。*pdf.Service が実装します。
type Runner interface {
	Run(req pdf.Request, out pdf.Reporter, cancel pdf.Canceller) *pdf.Result
}

// Task は専用の goroutine で実行中の1回の操作です。再利用はしません。
type Task struct {
	Request pdf.Request

	queue  *Queue
	flag   *CancelFlag
	done   chan struct{}
	result *pdf.Result
}

// Start は新しい goroutine で操作を開始し、すぐに戻ります。
// 結果はすべて queue に届きます。同時に2つ以上の操作を走らせないのは呼び出し側の責任です。
func Start(runner Runner, req pdf.Request, queue *Queue, flag *CancelFlag) *Task {
	t := &Task{
		Request: req,
		queue:   queue,
		flag:    flag,
		done:    make(chan struct{}),
	}
	go t.run(runner)
	return t
}

// Merge は結合をバックグラウンドで開始します。
func Merge(runner Runner, inputs []string, outputDir string, queue *Queue, flag *CancelFlag) *Task {
	return Start(runner, pdf.Request{Operation: pdf.OperationMerge, Inputs: inputs, OutputDir: outputDir}, queue, flag)
}

// Delete はページ削除をバックグラウンドで開始します。
func Delete(runner Runner, inputs []string, outputDir string, ranges []string, queue *Queue, flag *CancelFlag) *Task {
	return Start(runner, pdf.Request{Operation: pdf.OperationDelete, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, queue, flag)
}

// Extract はページ抽出をバックグラウンドで開始します。
func Extract(runner Runner, inputs []string, outputDir string, ranges []string, queue *Queue, flag *CancelFlag) *Task {
	return Start(runner, pdf.Request{Operation: pdf.OperationExtract, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, queue, flag)
}

// Split は分割をバックグラウンドで開始します。
func Split(runner Runner, inputs []string, outputDir string, ranges []string, queue *Queue, flag *CancelFlag) *Task {
	return Start(runner, pdf.Request{Operation: pdf.OperationSplit, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, queue, flag)
}

func (t *Task) run(runner Runner) {
	defer close(t.done)
	defer func() {
		if p := recover(); p != nil {
			t.result = nil
			t.queue.Report(pdf.StatusMessage{
				Kind:    pdf.KindFailed,
				Text:    fmt.Sprintf("An error occurred: %v", p),
				IsError: true,
				Code:    pdf.CodeInternal,
			})
		}
	}()
	t.result = runner.Run(t.Request, t.queue, t.flag)
}

// Cancel はキャンセルを要求します。次の確認ポイントで反映されます。
func (t *Task) Cancel() {
	t.flag.Set()
}

// Done は操作が終わると閉じられるチャネルを返します。
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait は操作の終了を待ち、成功時の Result を返します。
func (t *Task) Wait() *pdf.Result {
	<-t.done
	return t.result
}

func (t *Task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
