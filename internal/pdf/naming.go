package pdf

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const baseNameLimit = 5

// 操作ごとの出力ファイル名サフィックスです。
const (
	suffixMerged    = "_merged.pdf"
	suffixDeleted   = "_deleted.pdf"
	suffixExtracted = "_extracted.pdf"
)

func splitPartSuffix(index int) string {
	return fmt.Sprintf("_part%d.pdf", index)
}

// OutputPath は入力ファイル名から出力パスを組み立てます。
//
// 各入力の拡張子なしファイル名を先頭5文字に切り詰めて "-" で連結し、suffix を付けて
// outputDir と結合します。結果が MaxPathLength 文字を超える場合は PATH_TOO_LONG を返します。
func OutputPath(inputPaths []string, outputDir, suffix string) (string, error) {
	names := make([]string, len(inputPaths))
	for i, p := range inputPaths {
		base := filepath.Base(p)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		names[i] = truncateRunes(base, baseNameLimit)
	}

	full := filepath.Join(outputDir, strings.Join(names, "-")+suffix)
	if n := utf8.RuneCountInString(full); n > MaxPathLength {
		return "", newError(CodePathTooLong,
			fmt.Sprintf("The generated output path is too long: %d characters. Please use shorter input filenames.", n), nil)
	}
	return full, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
