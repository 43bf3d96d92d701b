package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitRangeExpr は "1, 3-5, 9" のような入力をトークンに分割します。空のトークンは捨てます。
func SplitRangeExpr(expr string) []string {
	segments := strings.Split(expr, ",")
	tokens := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		tokens = append(tokens, seg)
	}
	return tokens
}

// ParsePageRanges はページ範囲トークンを 1 始まりのページ番号列に展開します。
//
// トークンごとのエラーは out に警告として送り、そのトークンだけを読み飛ばします。
// 重複や順序はそのまま保持します。ページ数の上限チェックは行いません。
func ParsePageRanges(tokens []string, out Reporter) []int {
	if len(tokens) == 0 {
		report(out, warningMessage(newError(CodeInvalidRange, "Page ranges must be a non-empty list of page numbers or ranges.", nil)))
		return []int{}
	}

	pages := make([]int, 0, len(tokens))
	for _, token := range tokens {
		if strings.Contains(token, "-") {
			start, end, err := parseSingleRange(token)
			if err != nil {
				report(out, warningMessage(err))
				continue
			}
			// end が MaxInt でもあふれないよう、一致で抜けます。
			for p := start; ; p++ {
				pages = append(pages, p)
				if p == end {
					break
				}
			}
			continue
		}

		page, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			report(out, warningMessage(newError(CodeInvalidRange, fmt.Sprintf("Invalid page number: '%s'. Please use integers only.", token), nil)))
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

func parseSingleRange(token string) (int, int, *Error) {
	formatErr := newError(CodeInvalidRange, fmt.Sprintf("Invalid page range format: '%s'. Please use numbers separated by a hyphen(-).", token), nil)

	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, formatErr
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, formatErr
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, formatErr
	}
	if start > end {
		return 0, 0, newError(CodeInvalidRange, fmt.Sprintf("Invalid page range: %s. Start page must not be greater than end page.", token), nil)
	}
	return start, end, nil
}

func report(out Reporter, msg StatusMessage) {
	if out == nil {
		return
	}
	out.Report(msg)
}
