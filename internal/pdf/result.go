package pdf

// OperationType はPDF処理の種別を表します。
type OperationType string

const (
	OperationMerge   OperationType = "merge"
	OperationDelete  OperationType = "delete"
	OperationExtract OperationType = "extract"
	OperationSplit   OperationType = "split"
)

// ParseOperation は文字列を OperationType に変換します。
func ParseOperation(s string) (OperationType, bool) {
	switch op := OperationType(s); op {
	case OperationMerge, OperationDelete, OperationExtract, OperationSplit:
		return op, true
	}
	return "", false
}

// Request は1回の操作要求です。Ranges は未解析のページ範囲トークンです。
type Request struct {
	Operation OperationType `json:"operation"`
	Inputs    []string      `json:"inputs"`
	OutputDir string        `json:"outputDir"`
	Ranges    []string      `json:"ranges,omitempty"`
}

// Result は正常終了した操作の成果を表します。
type Result struct {
	Operation OperationType    `json:"operation"`
	Outputs   []OutputFile     `json:"outputs"`
	Sources   []SourceFileMeta `json:"sources"`
}

// OutputFile は書き出したPDFの情報です。
type OutputFile struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	// FromPage / ToPage は分割時のみ設定されます（1始まり、両端含む）。
	FromPage int `json:"fromPage,omitempty"`
	ToPage   int `json:"toPage,omitempty"`
}

// SourceFileMeta は入力PDFのメタデータです。
type SourceFileMeta struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
}

// TotalPages は全出力のページ数の合計を返します。
func (r *Result) TotalPages() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, o := range r.Outputs {
		total += o.Pages
	}
	return total
}
