package pdf

import "strings"

// InspectResult は入力PDFの基本メタデータを表します。
type InspectResult struct {
	Source SourceFileMeta `json:"source"`
}

// Inspect はPDFを開いてページ数を返します。呼び出し側のプレビュー用です。
func (s *Service) Inspect(path string) (*InspectResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, newError(CodeInvalidInput, "Missing input PDF.", nil)
	}
	doc, err := s.lib.Open(path)
	if err != nil {
		return nil, asError(err)
	}
	return &InspectResult{
		Source: SourceFileMeta{Path: doc.Path(), Pages: doc.PageCount()},
	}, nil
}
