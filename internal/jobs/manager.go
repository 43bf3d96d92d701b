package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/page-forge/internal/pdf"
)

// ErrJobNotFound は指定されたジョブが存在しない場合に返されます。
var ErrJobNotFound = errors.New("job not found")

// Manager は操作の開始、一定間隔でのメッセージ回収、ジョブ状態の保持を担います。
// 同時に実行できる操作は1つだけです。
type Manager struct {
	runner       Runner
	pollInterval time.Duration
	ttl          time.Duration
	logger       *logrus.Logger
	now          func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	active  string
}

type entry struct {
	record Record
	task   *Task
	queue  *Queue
	flag   *CancelFlag
}

// NewManager は Manager を初期化します。ttl が0以下の場合、終了したジョブは削除しません。
func NewManager(runner Runner, pollInterval, ttl time.Duration, logger *logrus.Logger) (*Manager, error) {
	if runner == nil {
		return nil, errors.New("runner is nil")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive: %s", pollInterval)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		runner:       runner,
		pollInterval: pollInterval,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
		entries:      make(map[string]*entry),
	}, nil
}

// Submit は操作を開始してジョブIDを返します。
// 実行中の操作がある場合は pdf.ErrOperationInFlight を返します。
func (m *Manager) Submit(req pdf.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != "" {
		return "", pdf.ErrOperationInFlight
	}

	now := m.now().UTC()
	e := &entry{
		record: Record{
			JobID:     uuid.NewString(),
			Operation: req.Operation,
			Status:    StatusQueued,
			Progress:  ProgressInfo{Stage: "queued"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		queue: NewQueue(),
		flag:  &CancelFlag{},
	}
	id := e.record.JobID
	m.entries[id] = e
	m.active = id

	e.task = Start(m.runner, req, e.queue, e.flag)
	e.record.Status = StatusRunning

	m.logger.WithFields(logrus.Fields{
		"job":       id,
		"operation": req.Operation,
	}).Info("job started")

	go m.watch(id, e)
	return id, nil
}

// Get はジョブ情報のコピーを返します。
func (m *Manager) Get(jobID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	rec := e.record
	rec.Messages = append([]pdf.StatusMessage(nil), e.record.Messages...)
	return &rec, nil
}

// Messages は offset 以降のメッセージと次回の offset を返します。
func (m *Manager) Messages(jobID string, offset int) ([]pdf.StatusMessage, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[jobID]
	if !ok {
		return nil, 0, ErrJobNotFound
	}
	msgs := e.record.Messages
	if offset < 0 {
		offset = 0
	}
	if offset > len(msgs) {
		offset = len(msgs)
	}
	return append([]pdf.StatusMessage(nil), msgs[offset:]...), len(msgs), nil
}

// Cancel は実行中のジョブにキャンセルを要求します。終了済みのジョブには何もしません。
func (m *Manager) Cancel(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if e.record.Done() {
		return nil
	}
	e.task.Cancel()
	m.logger.WithField("job", jobID).Info("cancellation requested")
	return nil
}

// Active は実行中のジョブIDを返します（なければ空文字）。
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Shutdown は実行中のジョブをキャンセルし、終了を待ちます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	var task *Task
	if e, ok := m.entries[m.active]; ok {
		task = e.task
		task.Cancel()
	}
	m.mu.Unlock()

	if task == nil {
		return nil
	}
	select {
	case <-task.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watch は pollInterval ごとにキューを回収し、終端メッセージでジョブを確定させます。
func (m *Manager) watch(jobID string, e *entry) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		exited := e.task.finished()
		if terminal, ok := m.apply(jobID, e, e.queue.Drain()); ok {
			m.finish(jobID, e, terminal)
			return
		}
		if exited {
			m.finish(jobID, e, pdf.StatusMessage{
				Kind:    pdf.KindFailed,
				Text:    "The operation ended without reporting a result.",
				IsError: true,
				Code:    pdf.CodeInternal,
			})
			return
		}
	}
}

// apply はメッセージをジョブ記録に反映し、終端メッセージがあればそれを返します。
func (m *Manager) apply(jobID string, e *entry, msgs []pdf.StatusMessage) (pdf.StatusMessage, bool) {
	if len(msgs) == 0 {
		return pdf.StatusMessage{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range msgs {
		m.logger.WithFields(logrus.Fields{
			"job":  jobID,
			"kind": msg.Kind,
		}).Debug(msg.Text)

		if msg.Kind == pdf.KindProgress {
			e.record.Progress = ProgressInfo{Percent: msg.Percent, Stage: msg.Stage}
			continue
		}
		e.record.Messages = append(e.record.Messages, msg)
		if msg.Terminal() {
			return msg, true
		}
	}
	e.record.UpdatedAt = m.now().UTC()
	return pdf.StatusMessage{}, false
}

func (m *Manager) finish(jobID string, e *entry, terminal pdf.StatusMessage) {
	result := e.task.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !e.record.Done() {
		if n := len(e.record.Messages); n == 0 || !e.record.Messages[n-1].Terminal() {
			e.record.Messages = append(e.record.Messages, terminal)
		}
	}
	e.record.Status = statusFor(terminal.Kind)
	switch e.record.Status {
	case StatusSucceeded:
		e.record.Result = result
		e.record.Progress = ProgressInfo{Percent: 100, Stage: "completed"}
	case StatusFailed:
		e.record.Error = &ErrorInfo{Code: terminal.Code, Message: terminal.Text}
	}
	now := m.now().UTC()
	e.record.UpdatedAt = now
	if m.active == jobID {
		m.active = ""
	}

	m.logger.WithFields(logrus.Fields{
		"job":    jobID,
		"status": e.record.Status,
	}).Info("job finished")

	if m.ttl > 0 {
		e.record.ExpiresAt = now.Add(m.ttl)
		time.AfterFunc(m.ttl, func() {
			m.mu.Lock()
			delete(m.entries, jobID)
			m.mu.Unlock()
		})
	}
}
