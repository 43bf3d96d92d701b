package pdf

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// operationSpec は操作ごとに異なる部分（入力数、サフィックス、ページ選択方針）をまとめたものです。
type operationSpec struct {
	minInputs   int
	maxInputs   int // 0 は上限なし
	needsRanges bool
	suffix      string
	inputsText  string
	cancelText  string
	execute     func(r *run) error
}

var operations = map[OperationType]operationSpec{
	OperationMerge: {
		minInputs:  2,
		suffix:     suffixMerged,
		inputsText: "Merge requires at least two input PDF files.",
		cancelText: "Merging operation was cancelled by the user.",
		execute:    executeMerge,
	},
	OperationDelete: {
		minInputs:   1,
		maxInputs:   1,
		needsRanges: true,
		suffix:      suffixDeleted,
		inputsText:  "Delete requires exactly one input PDF file.",
		cancelText:  "Deletion operation was cancelled by the user.",
		execute:     selectPages(func(listed bool) bool { return !listed }),
	},
	OperationExtract: {
		minInputs:   1,
		maxInputs:   1,
		needsRanges: true,
		suffix:      suffixExtracted,
		inputsText:  "Extract requires exactly one input PDF file.",
		cancelText:  "Extraction operation was cancelled by the user.",
		execute:     selectPages(func(listed bool) bool { return listed }),
	},
	OperationSplit: {
		minInputs:   1,
		maxInputs:   1,
		needsRanges: true,
		inputsText:  "Split requires exactly one input PDF file.",
		cancelText:  "Splitting operation was cancelled by the user.",
		execute:     executeSplit,
	},
}

func (o operationSpec) checkInputs(n int) *Error {
	if n < o.minInputs || (o.maxInputs > 0 && n > o.maxInputs) {
		return newError(CodeInvalidInput, o.inputsText, nil)
	}
	return nil
}

func (o operationSpec) firstSuffix() string {
	if o.suffix == "" {
		return splitPartSuffix(0)
	}
	return o.suffix
}

// run は1回の操作実行の状態を保持します。ワーカーだけが触ります。
type run struct {
	svc        *Service
	req        Request
	out        Reporter
	cancel     Canceller
	progress   *progressTracker
	result     *Result
	log        *logrus.Entry
	outputPath string
	pages      []int
}

func (r *run) cancelled() bool {
	return r.cancel.Cancelled()
}

func (r *run) open(path string) (Document, error) {
	doc, err := r.svc.lib.Open(path)
	if err != nil {
		return nil, err
	}
	r.result.Sources = append(r.result.Sources, SourceFileMeta{Path: path, Pages: doc.PageCount()})
	if len(r.result.Sources) == 1 {
		r.progress.report(stageLoad, 20)
	}
	return doc, nil
}

func (r *run) save(w Writer, path string, fromPage, toPage int) error {
	if err := w.Save(path); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"output": path, "pages": w.Len()}).Debug("output written")
	r.result.Outputs = append(r.result.Outputs, OutputFile{
		Path:     path,
		Pages:    w.Len(),
		FromPage: fromPage,
		ToPage:   toPage,
	})
	return nil
}

// executeMerge は全入力の全ページを順に結合します。キャンセルは入力ファイル単位で確認します。
func executeMerge(r *run) error {
	w := r.svc.lib.NewWriter()
	total := len(r.req.Inputs)
	for i, path := range r.req.Inputs {
		if r.cancelled() {
			return errCancelled
		}
		doc, err := r.open(path)
		if err != nil {
			return err
		}
		for p := 0; p < doc.PageCount(); p++ {
			w.Append(doc.Page(p))
		}
		r.progress.step(i+1, total)
	}
	r.progress.report(stageWrite, 80)
	return r.save(w, r.outputPath, 0, 0)
}

// selectPages はページ番号が指定集合に含まれるかどうかで残すページを決める操作を返します。
// キャンセルはページ単位で確認します。
func selectPages(keep func(listed bool) bool) func(r *run) error {
	return func(r *run) error {
		listed := make(map[int]struct{}, len(r.pages))
		for _, p := range r.pages {
			listed[p] = struct{}{}
		}

		doc, err := r.open(r.req.Inputs[0])
		if err != nil {
			return err
		}

		w := r.svc.lib.NewWriter()
		count := doc.PageCount()
		for i := 0; i < count; i++ {
			if r.cancelled() {
				return errCancelled
			}
			_, ok := listed[i+1]
			if keep(ok) {
				w.Append(doc.Page(i))
			}
			r.progress.step(i+1, count)
		}
		r.progress.report(stageWrite, 80)
		return r.save(w, r.outputPath, 0, 0)
	}
}

// executeSplit は区切り位置ごとに1ファイルを書き出します。キャンセルは区間単位で確認します。
func executeSplit(r *run) error {
	doc, err := r.open(r.req.Inputs[0])
	if err != nil {
		return err
	}

	cuts := CutPoints(r.pages, doc.PageCount())
	segments := len(cuts) - 1

	paths := make([]string, segments)
	for i := range paths {
		path, err := OutputPath(r.req.Inputs, r.req.OutputDir, splitPartSuffix(i))
		if err != nil {
			return err
		}
		paths[i] = path
	}

	for i := 0; i < segments; i++ {
		if r.cancelled() {
			return errCancelled
		}
		from, to := cuts[i], cuts[i+1]
		w := r.svc.lib.NewWriter()
		for page := from; page < to; page++ {
			w.Append(doc.Page(page - 1))
		}
		if err := r.save(w, paths[i], from, to-1); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		r.progress.step(i+1, segments)
	}
	return nil
}

// CutPoints は {1} ∪ pages ∪ {pageCount+1} を昇順・重複なしで返します。
// 1..pageCount+1 の範囲外の値は捨てます。
func CutPoints(pages []int, pageCount int) []int {
	cuts := make([]int, 0, len(pages)+2)
	cuts = append(cuts, 1, pageCount+1)
	for _, p := range pages {
		if p >= 1 && p <= pageCount+1 {
			cuts = append(cuts, p)
		}
	}
	slices.Sort(cuts)
	return slices.Compact(cuts)
}
