package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/page-forge/internal/pdf"
)

// runnerFunc は関数を Runner として扱います。
type runnerFunc func(req pdf.Request, out pdf.Reporter, cancel pdf.Canceller) *pdf.Result

func (f runnerFunc) Run(req pdf.Request, out pdf.Reporter, cancel pdf.Canceller) *pdf.Result {
	return f(req, out, cancel)
}

// finishing は info と finished を送って Result を返す Runner です。
func finishing() Runner {
	return runnerFunc(func(req pdf.Request, out pdf.Reporter, _ pdf.Canceller) *pdf.Result {
		out.Report(pdf.StatusMessage{Kind: pdf.KindInfo, Text: "Starting " + string(req.Operation)})
		out.Report(pdf.StatusMessage{Kind: pdf.KindProgress, Stage: "process", Percent: 50})
		out.Report(pdf.StatusMessage{Kind: pdf.KindFinished, Text: pdf.FinishedText})
		return &pdf.Result{
			Operation: req.Operation,
			Outputs:   []pdf.OutputFile{{Path: req.OutputDir + "/out.pdf", Pages: 3}},
		}
	})
}

// waitingForCancel はキャンセルされるまで待ち続ける Runner です。開始時に started へ通知します。
func waitingForCancel(started chan struct{}) Runner {
	return runnerFunc(func(_ pdf.Request, out pdf.Reporter, cancel pdf.Canceller) *pdf.Result {
		select {
		case started <- struct{}{}:
		default:
		}
		for !cancel.Cancelled() {
			time.Sleep(time.Millisecond)
		}
		out.Report(pdf.StatusMessage{Kind: pdf.KindCancelled, Text: "Merging operation was cancelled by the user."})
		return nil
	})
}

func TestTaskDeliversMessagesThroughQueue(t *testing.T) {
	q := NewQueue()
	task := Extract(finishing(), []string{"/in/a.pdf"}, "/out", []string{"1"}, q, &CancelFlag{})

	result := task.Wait()
	require.NotNil(t, result)
	assert.Equal(t, pdf.OperationExtract, result.Operation)
	assert.Equal(t, pdf.OperationExtract, task.Request.Operation)
	assert.Equal(t, []string{"1"}, task.Request.Ranges)

	msgs := q.Drain()
	require.Len(t, msgs, 3)
	assert.Equal(t, pdf.KindFinished, msgs[2].Kind)
	assert.True(t, task.finished())
}

func TestTaskCancel(t *testing.T) {
	started := make(chan struct{}, 1)
	q := NewQueue()
	flag := &CancelFlag{}
	task := Merge(waitingForCancel(started), []string{"/a.pdf", "/b.pdf"}, "/out", q, flag)

	<-started
	assert.False(t, task.finished())
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop after cancel")
	}
	assert.True(t, flag.Cancelled())
	msgs := q.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, pdf.KindCancelled, msgs[0].Kind)
	assert.False(t, msgs[0].IsError)
}

func TestTaskRecoversPanic(t *testing.T) {
	q := NewQueue()
	runner := runnerFunc(func(pdf.Request, pdf.Reporter, pdf.Canceller) *pdf.Result {
		panic("page tree corrupted")
	})

	task := Split(runner, []string{"/a.pdf"}, "/out", []string{"2"}, q, &CancelFlag{})
	assert.Nil(t, task.Wait())

	msgs := q.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, pdf.KindFailed, msgs[0].Kind)
	assert.True(t, msgs[0].IsError)
	assert.Contains(t, msgs[0].Text, "page tree corrupted")
	assert.Equal(t, pdf.CodeInternal, msgs[0].Code)
}

func TestTaskHelpersSetOperation(t *testing.T) {
	noop := runnerFunc(func(pdf.Request, pdf.Reporter, pdf.Canceller) *pdf.Result { return nil })
	q, flag := NewQueue(), &CancelFlag{}

	cases := map[pdf.OperationType]*Task{
		pdf.OperationMerge:   Merge(noop, []string{"a", "b"}, "/out", q, flag),
		pdf.OperationDelete:  Delete(noop, []string{"a"}, "/out", []string{"1"}, q, flag),
		pdf.OperationExtract: Extract(noop, []string{"a"}, "/out", []string{"1"}, q, flag),
		pdf.OperationSplit:   Split(noop, []string{"a"}, "/out", []string{"1"}, q, flag),
	}
	for op, task := range cases {
		task.Wait()
		assert.Equal(t, op, task.Request.Operation)
	}
}
