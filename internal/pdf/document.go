package pdf

// Page は入力PDFの1ページを指すハンドルです（Number は1始まり）。
type Page struct {
	Source string
	Number int
}

// Document は開いた入力PDFの読み取り専用ビューです。
type Document interface {
	Path() string
	PageCount() int
	// Page は0始まりのインデックスでページを返します。
	Page(index int) Page
}

// Writer は選択されたページを蓄積し、新しいPDFとして保存します。
type Writer interface {
	Append(page Page)
	Len() int
	Save(path string) error
}

// Library はPDFライブラリの抽象化です。
type Library interface {
	Open(path string) (Document, error)
	NewWriter() Writer
}
