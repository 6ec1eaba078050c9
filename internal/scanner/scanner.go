// Package scanner 一次线性扫描文本，找出围栏代码块与行内代码区间
//
// 第一遍按行识别围栏（``` 或 ~~~，至少三个字符；闭合围栏字符相同且不短于开头）。
// 第二遍只在围栏之外的文本上识别行内代码，因此所有区间天然不重叠。
package scanner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/riverfjs/asciimath-go/internal/escape"
	"github.com/riverfjs/asciimath-go/internal/types"
)

// Result 扫描结果
type Result struct {
	// Ranges 按文档顺序排列、互不重叠的代码区间
	Ranges []types.CodeRange
	// Gaps 不属于任何代码区间的文本片段
	Gaps []types.Span
}

// Formulas 返回所有带公式的区间（公式围栏与行内公式）
func (r Result) Formulas() []types.CodeRange {
	out := make([]types.CodeRange, 0)
	for _, cr := range r.Ranges {
		if !cr.Excludes() {
			out = append(out, cr)
		}
	}
	return out
}

// Scanner 代码区间扫描器
type Scanner struct {
	prefixes map[string]struct{}
	inline   *regexp.Regexp
	// openTail、closeHead 行内定界符紧贴内容的字符，如 `$ 的 $
	openTail  byte
	closeHead byte
}

// New 创建扫描器
//
// prefixes 是公式围栏可识别的前缀（如 asciimath、am），pair 是行内公式定界符。
func New(prefixes []string, pair types.DelimiterPair) (*Scanner, error) {
	if len(prefixes) == 0 {
		return nil, errors.New("scanner: at least one block prefix is required")
	}
	if pair.Open == "" || pair.Close == "" {
		return nil, errors.New("scanner: inline delimiters must not be empty")
	}
	set := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p != "" {
			set[p] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, errors.New("scanner: block prefixes are blank")
	}
	pattern := "^" + escape.Normalize(pair.Open) + "(.*?)" + escape.Normalize(pair.Close) + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "scanner: compile inline pattern %q", pattern)
	}
	return &Scanner{
		prefixes:  set,
		inline:    re,
		openTail:  pair.Open[len(pair.Open)-1],
		closeHead: pair.Close[0],
	}, nil
}

// Scan 扫描文本
func (s *Scanner) Scan(text string) Result {
	ranges := s.scanFences(text)
	for _, gap := range complement(ranges, len(text)) {
		ranges = append(ranges, s.scanInline(text, gap)...)
	}
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})
	return Result{
		Ranges: ranges,
		Gaps:   complement(ranges, len(text)),
	}
}

// IsPrefix 判断围栏信息串的第一个词是否为已识别前缀
func (s *Scanner) IsPrefix(info string) (string, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", false
	}
	if _, ok := s.prefixes[fields[0]]; ok {
		return fields[0], true
	}
	return "", false
}

// scanFences 第一遍：按行识别围栏代码块
func (s *Scanner) scanFences(text string) []types.CodeRange {
	out := make([]types.CodeRange, 0)
	pos := 0
	for pos < len(text) {
		end := lineEnd(text, pos)
		f, ok := parseOpening(text[pos:end])
		if !ok {
			pos = nextLine(text, end)
			continue
		}

		r := types.CodeRange{
			Start:        pos,
			Kind:         types.RangeFence,
			ContentStart: nextLine(text, end),
		}
		p := r.ContentStart
		next := len(text)
		for p < len(text) {
			le := lineEnd(text, p)
			if f.closes(text[p:le]) {
				r.ContentEnd = p
				// CRLF 文本中的 \r 留在区间之外
				r.End = le
				if le > p && text[le-1] == '\r' {
					r.End = le - 1
				}
				r.Closed = true
				next = nextLine(text, le)
				break
			}
			p = nextLine(text, le)
		}

		// 未闭合的围栏一直延续到文末
		if !r.Closed {
			r.ContentEnd = len(text)
			r.End = len(text)
		} else if prefix, ok := s.IsPrefix(f.info); ok {
			r.FormulaBearing = true
			r.Prefix = prefix
		}

		out = append(out, r)
		pos = next
	}
	return out
}

// scanInline 第二遍：在 gap 内识别行内代码
//
// 开头的反引号串只能被同一行内等长的反引号串闭合，不等长的反引号串按普通文本处理。
func (s *Scanner) scanInline(text string, gap types.Span) []types.CodeRange {
	out := make([]types.CodeRange, 0)
	i := gap.Start
	for i < gap.End {
		if text[i] != '`' {
			i++
			continue
		}
		n := runLength(text[i:gap.End], '`')
		closeAt := findClosingRun(text[:gap.End], i+n, n)
		if closeAt < 0 {
			i += n
			continue
		}

		r := types.CodeRange{
			Start:        i,
			End:          closeAt + n,
			Kind:         types.RangeInlineCode,
			Closed:       true,
			ContentStart: i + n,
			ContentEnd:   closeAt,
		}
		if m := s.inline.FindStringSubmatchIndex(text[r.Start:r.End]); m != nil && s.bare(text[r.Start+m[2]:r.Start+m[3]]) {
			r.Kind = types.RangeInlineMath
			r.ContentStart = r.Start + m[2]
			r.ContentEnd = r.Start + m[3]
		}
		out = append(out, r)
		i = r.End
	}
	return out
}

// bare 内容两端不能再紧跟一个定界字符，`$$x$$` 仍是普通行内代码
func (s *Scanner) bare(content string) bool {
	if content == "" {
		return true
	}
	return content[0] != s.openTail && content[len(content)-1] != s.closeHead
}

// findClosingRun 从 from 开始找长度恰好为 n 的反引号串，遇到换行即放弃
func findClosingRun(text string, from, n int) int {
	j := from
	for j < len(text) && text[j] != '\n' {
		if text[j] != '`' {
			j++
			continue
		}
		m := runLength(text[j:], '`')
		if m == n {
			return j
		}
		j += m
	}
	return -1
}

// fence 围栏开头信息
type fence struct {
	char byte
	n    int
	info string
}

// parseOpening 解析围栏开头行
func parseOpening(line string) (fence, bool) {
	rest, ok := stripIndent(line)
	if !ok || len(rest) < 3 {
		return fence{}, false
	}
	c := rest[0]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := runLength(rest, c)
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(rest[n:])
	// 反引号围栏的信息串不能再含反引号
	if c == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}
	return fence{char: c, n: n, info: info}, true
}

// closes 判断一行是否为该围栏的闭合行
func (f fence) closes(line string) bool {
	rest, ok := stripIndent(line)
	if !ok {
		return false
	}
	n := runLength(rest, f.char)
	if n < f.n {
		return false
	}
	return strings.TrimRight(rest[n:], " \t\r") == ""
}

// stripIndent 去掉最多三个空格的缩进
func stripIndent(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i > 3 {
		return "", false
	}
	return line[i:], true
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// lineEnd 返回 pos 所在行的换行符位置（无换行时为文本长度）
func lineEnd(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}

func nextLine(text string, end int) int {
	if end < len(text) {
		return end + 1
	}
	return len(text)
}

// complement 返回 [0, n) 中不被 ranges 覆盖的片段
func complement(ranges []types.CodeRange, n int) []types.Span {
	sorted := make([]types.CodeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	gaps := make([]types.Span, 0, len(sorted)+1)
	cursor := 0
	for _, r := range sorted {
		if r.Start > cursor {
			gaps = append(gaps, types.Span{Start: cursor, End: r.Start})
		}
		if r.End > cursor {
			cursor = r.End
		}
	}
	if cursor < n {
		gaps = append(gaps, types.Span{Start: cursor, End: n})
	}
	return gaps
}
