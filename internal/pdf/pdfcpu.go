package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const pdfMIME = "application/pdf"

// ErrNoPages は空の Writer を保存しようとしたときに返されます。
var ErrNoPages = errors.New("no pages selected")

// PDFCPULibrary は pdfcpu を使った Library 実装です。
type PDFCPULibrary struct {
	validationMode int
}

// NewPDFCPULibrary は検証モード ("relaxed" / "strict") を指定して Library を作成します。
func NewPDFCPULibrary(validationMode string) *PDFCPULibrary {
	mode := model.ValidationRelaxed
	if validationMode == "strict" {
		mode = model.ValidationStrict
	}
	return &PDFCPULibrary{validationMode: mode}
}

// pdfcpu は呼び出しごとに Configuration を書き換えるため、毎回新しく作ります。
func (l *PDFCPULibrary) newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = l.validationMode
	return conf
}

// Open はPDFファイルを開き、ページ数を読み込みます。
func (l *PDFCPULibrary) Open(path string) (Document, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !mtype.Is(pdfMIME) {
		return nil, fmt.Errorf("%s is not a PDF file (detected %s)", filepath.Base(path), mtype.String())
	}

	count, err := pdfapi.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return &fileDocument{path: path, pages: count}, nil
}

// NewWriter は新しい Writer を返します。
func (l *PDFCPULibrary) NewWriter() Writer {
	return &collectWriter{lib: l}
}

type fileDocument struct {
	path  string
	pages int
}

func (d *fileDocument) Path() string   { return d.path }
func (d *fileDocument) PageCount() int { return d.pages }

func (d *fileDocument) Page(index int) Page {
	return Page{Source: d.path, Number: index + 1}
}

// collectWriter は追加されたページを同じ入力ファイルごとの連続区間にまとめ、
// 保存時に CollectFile / MergeCreateFile で書き出します。
type collectWriter struct {
	lib  *PDFCPULibrary
	runs []pageRun
	n    int
}

type pageRun struct {
	source string
	pages  []string
}

func (w *collectWriter) Append(page Page) {
	w.n++
	if last := len(w.runs) - 1; last >= 0 && w.runs[last].source == page.Source {
		w.runs[last].pages = append(w.runs[last].pages, strconv.Itoa(page.Number))
		return
	}
	w.runs = append(w.runs, pageRun{source: page.Source, pages: []string{strconv.Itoa(page.Number)}})
}

func (w *collectWriter) Len() int { return w.n }

func (w *collectWriter) Save(path string) error {
	if w.n == 0 {
		return ErrNoPages
	}
	if len(w.runs) == 1 {
		run := w.runs[0]
		if err := pdfapi.CollectFile(run.source, path, run.pages, w.lib.newConfiguration()); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "page-forge-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	parts := make([]string, len(w.runs))
	for i, run := range w.runs {
		parts[i] = filepath.Join(tmpDir, fmt.Sprintf("run-%03d.pdf", i))
		if err := pdfapi.CollectFile(run.source, parts[i], run.pages, w.lib.newConfiguration()); err != nil {
			return fmt.Errorf("failed to collect pages from %s: %w", filepath.Base(run.source), err)
		}
	}
	if err := pdfapi.MergeCreateFile(parts, path, false, w.lib.newConfiguration()); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
