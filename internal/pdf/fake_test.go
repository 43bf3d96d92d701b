package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakeLibrary はページ数だけを持つ文書を扱い、保存時にページ一覧をテキストで書き出します。
type fakeLibrary struct {
	pages   map[string]int
	openErr map[string]error
	saveErr error
	opened  []string
}

func newFakeLibrary(pages map[string]int) *fakeLibrary {
	return &fakeLibrary{pages: pages, openErr: map[string]error{}}
}

func (l *fakeLibrary) Open(path string) (Document, error) {
	l.opened = append(l.opened, path)
	if err := l.openErr[path]; err != nil {
		return nil, err
	}
	n, ok := l.pages[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return &fileDocument{path: path, pages: n}, nil
}

func (l *fakeLibrary) NewWriter() Writer {
	return &fakeWriter{lib: l}
}

type fakeWriter struct {
	lib   *fakeLibrary
	pages []Page
}

func (w *fakeWriter) Append(p Page) { w.pages = append(w.pages, p) }
func (w *fakeWriter) Len() int      { return len(w.pages) }

func (w *fakeWriter) Save(path string) error {
	if w.lib.saveErr != nil {
		return w.lib.saveErr
	}
	var b strings.Builder
	for _, p := range w.pages {
		fmt.Fprintf(&b, "%s:%d\n", filepath.Base(p.Source), p.Number)
	}
	return os.WriteFile(path, []byte(b.String()), 0o640)
}

// readFakeOutput は fakeWriter が書いたファイルからページ番号を読み出します。
func readFakeOutput(t *testing.T, path string) []int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output %s: %v", path, err)
	}
	var pages []int
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, ":")
		n, err := strconv.Atoi(line[idx+1:])
		if err != nil {
			t.Fatalf("malformed line %q", line)
		}
		pages = append(pages, n)
	}
	return pages
}

// collector はテスト用の Reporter です。
type collector struct {
	mu   sync.Mutex
	msgs []StatusMessage
}

func (c *collector) Report(msg StatusMessage) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

func (c *collector) messages() []StatusMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StatusMessage(nil), c.msgs...)
}

func (c *collector) ofKind(kind MessageKind) []StatusMessage {
	var out []StatusMessage
	for _, m := range c.messages() {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func (c *collector) terminals() []StatusMessage {
	var out []StatusMessage
	for _, m := range c.messages() {
		if m.Terminal() {
			out = append(out, m)
		}
	}
	return out
}

func (c *collector) last() StatusMessage {
	msgs := c.messages()
	if len(msgs) == 0 {
		return StatusMessage{}
	}
	return msgs[len(msgs)-1]
}

// cancelAfter は n 回目の確認までは false を返し、それ以降は true を返します。
type cancelAfter struct {
	n     int
	calls int
}

func (c *cancelAfter) Cancelled() bool {
	c.calls++
	return c.calls > c.n
}

type recordingRevealer struct {
	paths []string
	err   error
}

func (r *recordingRevealer) Reveal(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var errBroken = errors.New("xref table broken")
