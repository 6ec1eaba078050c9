// Package rewrite 将一组不重叠的替换应用到原文
package rewrite

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/riverfjs/asciimath-go/internal/types"
)

// Edit 用 Text 替换原文 [Start, End)
type Edit struct {
	Start int
	End   int
	Text  string
}

// Span 返回 Edit 的区间
func (e Edit) Span() types.Span {
	return types.Span{Start: e.Start, End: e.End}
}

// Apply 从文末向文首依次替换，原文中未被覆盖的部分原样保留
//
// 所有偏移都相对于原文，与 edits 的传入顺序无关。
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	tb := newTailBuffer(2*len(sorted) + 1)
	cursor := len(text)
	for _, e := range sorted {
		if e.Start < 0 || e.End > len(text) || e.Start > e.End {
			return "", errors.Errorf("edit [%d:%d] out of range for text of length %d", e.Start, e.End, len(text))
		}
		if e.End > cursor {
			return "", errors.Errorf("edit [%d:%d] overlaps edit starting at %d", e.Start, e.End, cursor)
		}
		tb.Prepend(text[e.End:cursor])
		tb.Prepend(e.Text)
		cursor = e.Start
	}
	tb.Prepend(text[:cursor])
	return tb.String(), nil
}
