// Package extract 根据扫描结果提取待转换的公式
package extract

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/riverfjs/asciimath-go/internal/classify"
	"github.com/riverfjs/asciimath-go/internal/scanner"
	"github.com/riverfjs/asciimath-go/internal/types"
)

// Options 提取选项
type Options struct {
	// DollarMath 是否把 $...$ / $$...$$ 中的内容也当作 AsciiMath 候选
	DollarMath bool
	// ConvertLikelyTarget 只有弱证据时也当作候选，否则跳过
	ConvertLikelyTarget bool
}

// Skipped 因已是 LaTeX 而跳过的公式
type Skipped struct {
	Match   types.FormulaMatch
	Verdict classify.Verdict
}

// Extraction 提取结果
type Extraction struct {
	// Matches 按 Start 升序排列、互不重叠
	Matches []types.FormulaMatch
	Skipped []Skipped
	// Likely 只有弱证据但仍会转换的公式
	Likely []types.FormulaMatch
}

// Error 偏移量无法解析时的内部错误
type Error struct {
	Match  types.FormulaMatch
	Reason string
}

func (e *Error) Error() string {
	return "extract: " + e.Reason + " at " + e.Match.String()
}

// Extractor 公式提取器
type Extractor struct {
	opts Options
}

// New 创建提取器
func New(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract 从文本与扫描结果中提取公式
func (e *Extractor) Extract(text string, scan scanner.Result) (Extraction, error) {
	var res Extraction
	candidates := make([]types.FormulaMatch, 0)

	// 1. 公式围栏与行内定界符
	for _, r := range scan.Formulas() {
		if r.ContentStart > r.ContentEnd || r.ContentEnd > len(text) {
			return res, &Error{
				Match:  types.FormulaMatch{Start: r.Start, End: r.End},
				Reason: "content offsets out of range",
			}
		}
		m := types.FormulaMatch{
			Start:   r.Start,
			End:     r.End,
			Content: strings.TrimSpace(text[r.ContentStart:r.ContentEnd]),
		}
		if r.Kind == types.RangeFence {
			m.Kind = types.Block
			m.Source = types.SourceFence
		} else {
			m.Kind = types.Inline
			m.Source = types.SourceInlinePair
		}
		candidates = append(candidates, m)
	}

	// 2. 美元符号公式，只在代码区间之外查找
	if e.opts.DollarMath {
		for _, gap := range scan.Gaps {
			candidates = append(candidates, findDollarMath(text, gap)...)
		}
	}

	exclusions := make([]types.Span, 0)
	for _, r := range scan.Ranges {
		if r.Excludes() {
			exclusions = append(exclusions, r.Span())
		}
	}

	for _, m := range candidates {
		if m.Content == "" {
			continue
		}
		if insideAny(m.Span(), exclusions) {
			continue
		}
		switch v := classify.Classify(m.Content); v {
		case classify.Target:
			res.Skipped = append(res.Skipped, Skipped{Match: m, Verdict: v})
			continue
		case classify.LikelyTarget:
			if !e.opts.ConvertLikelyTarget {
				res.Skipped = append(res.Skipped, Skipped{Match: m, Verdict: v})
				continue
			}
			res.Likely = append(res.Likely, m)
		}
		res.Matches = append(res.Matches, m)
	}

	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Start < res.Matches[j].Start
	})
	if err := Validate(text, res.Matches); err != nil {
		return res, err
	}
	return res, nil
}

// Validate 检查偏移量合法且互不重叠（matches 需按 Start 升序）
func Validate(text string, matches []types.FormulaMatch) error {
	prevEnd := 0
	for i, m := range matches {
		if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
			return &Error{Match: m, Reason: "offsets out of range"}
		}
		if i > 0 && m.Start < prevEnd {
			return &Error{Match: m, Reason: "overlaps previous formula"}
		}
		prevEnd = m.End
	}
	return nil
}

func insideAny(s types.Span, zones []types.Span) bool {
	for _, z := range zones {
		if z.Contains(s) {
			return true
		}
	}
	return false
}

// findDollarMath 在 gap 内查找 $$...$$ 与 $...$
//
// 行内公式：开头 $ 不能被转义，前面不能是 $，后面不能是空白；结尾 $ 前不能是空白，
// 后面不能是 $ 或数字（避免把 "$5 and $10" 当成公式）。
func findDollarMath(text string, gap types.Span) []types.FormulaMatch {
	out := make([]types.FormulaMatch, 0)
	i := gap.Start
	for i < gap.End {
		c := text[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c != '$' {
			i++
			continue
		}

		if i+1 < gap.End && text[i+1] == '$' {
			closeAt := findUnescaped(text, i+2, gap.End, "$$")
			if closeAt < 0 {
				i += 2
				continue
			}
			out = append(out, types.FormulaMatch{
				Kind:    types.Block,
				Start:   i,
				End:     closeAt + 2,
				Content: strings.TrimSpace(text[i+2 : closeAt]),
				Source:  types.SourceDollar,
			})
			i = closeAt + 2
			continue
		}

		if m, ok := inlineDollarAt(text, i, gap.End); ok {
			out = append(out, m)
			i = m.End
			continue
		}
		i++
	}
	return out
}

// inlineDollarAt 尝试从 i 处的 $ 开始匹配行内公式
func inlineDollarAt(text string, i, limit int) (types.FormulaMatch, bool) {
	if i > 0 && text[i-1] == '$' {
		return types.FormulaMatch{}, false
	}
	if r, _ := utf8.DecodeRuneInString(text[i+1 : limit]); i+1 >= limit || unicode.IsSpace(r) {
		return types.FormulaMatch{}, false
	}
	closeAt := findUnescaped(text, i+1, limit, "$")
	if closeAt < 0 {
		return types.FormulaMatch{}, false
	}
	if closeAt+1 < limit && (text[closeAt+1] == '$' || isDigit(text[closeAt+1])) {
		return types.FormulaMatch{}, false
	}
	if r, _ := utf8.DecodeLastRuneInString(text[i+1 : closeAt]); unicode.IsSpace(r) {
		return types.FormulaMatch{}, false
	}
	// 行内公式不跨段落
	if strings.Contains(text[i+1:closeAt], "\n\n") {
		return types.FormulaMatch{}, false
	}
	return types.FormulaMatch{
		Kind:    types.Inline,
		Start:   i,
		End:     closeAt + 1,
		Content: strings.TrimSpace(text[i+1 : closeAt]),
		Source:  types.SourceDollar,
	}, true
}

// findUnescaped 在 [from, limit) 中查找未被反斜杠转义的 delim
func findUnescaped(text string, from, limit int, delim string) int {
	j := from
	for j+len(delim) <= limit {
		if text[j] == '\\' {
			j += 2
			continue
		}
		if strings.HasPrefix(text[j:limit], delim) {
			return j
		}
		j++
	}
	return -1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
