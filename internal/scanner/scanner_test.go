package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/asciimath-go/internal/types"
)

var defaultPair = types.DelimiterPair{Open: "`$", Close: "$`"}

func newScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New([]string{"asciimath", "am"}, defaultPair)
	require.NoError(t, err)
	return s
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil, defaultPair)
	assert.Error(t, err)

	_, err = New([]string{" ", ""}, defaultPair)
	assert.Error(t, err)

	_, err = New([]string{"am"}, types.DelimiterPair{Open: "`$"})
	assert.Error(t, err)
}

func TestScan_FormulaFence(t *testing.T) {
	text := "```asciimath\nA + B\n```"
	res := newScanner(t).Scan(text)

	require.Len(t, res.Ranges, 1)
	r := res.Ranges[0]
	assert.Equal(t, types.RangeFence, r.Kind)
	assert.True(t, r.FormulaBearing)
	assert.True(t, r.Closed)
	assert.Equal(t, "asciimath", r.Prefix)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, len(text), r.End)
	assert.Equal(t, "A + B\n", text[r.ContentStart:r.ContentEnd])
	assert.Empty(t, res.Gaps)
}

func TestScan_PlainFenceIsExclusion(t *testing.T) {
	text := "before\n```go\nx := `$a$`\n```\nafter"
	res := newScanner(t).Scan(text)

	// 围栏内部的行内代码不应被识别
	require.Len(t, res.Ranges, 1)
	r := res.Ranges[0]
	assert.False(t, r.FormulaBearing)
	assert.True(t, r.Excludes())
	assert.Equal(t, "```go\nx := `$a$`\n```", text[r.Start:r.End])

	require.Len(t, res.Gaps, 2)
	assert.Equal(t, "before\n", text[res.Gaps[0].Start:res.Gaps[0].End])
	assert.Equal(t, "\nafter", text[res.Gaps[1].Start:res.Gaps[1].End])
}

func TestScan_PrefixMustBeWholeWord(t *testing.T) {
	text := "```amazing\nx\n```\n"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	assert.False(t, res.Ranges[0].FormulaBearing)
}

func TestScan_TildeFenceAndLongerClose(t *testing.T) {
	text := "~~~~am\nx/y\n~~~\n~~~~~\nrest"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	r := res.Ranges[0]
	assert.True(t, r.FormulaBearing)
	// 三个 ~ 不能闭合四个 ~ 的围栏
	assert.Equal(t, "x/y\n~~~\n", text[r.ContentStart:r.ContentEnd])
	assert.Equal(t, "~~~~am\nx/y\n~~~\n~~~~~", text[r.Start:r.End])
}

func TestScan_MismatchedFenceChar(t *testing.T) {
	text := "```am\nx\n~~~\n```"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	assert.Equal(t, "x\n~~~\n", text[res.Ranges[0].ContentStart:res.Ranges[0].ContentEnd])
}

func TestScan_UnclosedFence(t *testing.T) {
	text := "intro\n```am\nx + y\n`$z$`\n"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	r := res.Ranges[0]
	assert.False(t, r.Closed)
	assert.False(t, r.FormulaBearing)
	assert.Equal(t, len(text), r.End)
}

func TestScan_IndentedFence(t *testing.T) {
	text := "   ```am\n   x\n   ```\n    ```am\n"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	assert.True(t, res.Ranges[0].FormulaBearing)
	assert.Equal(t, "   ```am\n   x\n   ```", text[res.Ranges[0].Start:res.Ranges[0].End])
}

func TestScan_CRLF(t *testing.T) {
	text := "```am\r\nx\r\n```\r\nafter"
	res := newScanner(t).Scan(text)
	require.Len(t, res.Ranges, 1)
	r := res.Ranges[0]
	assert.True(t, r.FormulaBearing)
	assert.True(t, r.Closed)
	assert.Equal(t, "x\r\n", text[r.ContentStart:r.ContentEnd])
	// 闭合行的 \r 不属于围栏
	assert.Equal(t, "```am\r\nx\r\n```", text[r.Start:r.End])
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, "\r\nafter", text[res.Gaps[0].Start:res.Gaps[0].End])
}

func TestScan_DoubledDelimiterIsInlineCode(t *testing.T) {
	tests := []string{"`$$x$$`", "`$$x$`", "`$x$$`"}
	s := newScanner(t)
	for _, text := range tests {
		res := s.Scan(text)
		require.Len(t, res.Ranges, 1, text)
		assert.Equal(t, types.RangeInlineCode, res.Ranges[0].Kind, text)
		assert.True(t, res.Ranges[0].Excludes(), text)
	}
}

func TestScan_InlineCodeAndInlineMath(t *testing.T) {
	text := "code `x + y` and math `$a/b$` end"
	res := newScanner(t).Scan(text)

	require.Len(t, res.Ranges, 2)
	code, math := res.Ranges[0], res.Ranges[1]

	assert.Equal(t, types.RangeInlineCode, code.Kind)
	assert.True(t, code.Excludes())
	assert.Equal(t, "`x + y`", text[code.Start:code.End])

	assert.Equal(t, types.RangeInlineMath, math.Kind)
	assert.False(t, math.Excludes())
	assert.Equal(t, "a/b", text[math.ContentStart:math.ContentEnd])

	assert.Len(t, res.Formulas(), 1)
}

func TestScan_CustomDelimiters(t *testing.T) {
	s, err := New([]string{"am"}, types.DelimiterPair{Open: "`(", Close: ")`"})
	require.NoError(t, err)

	text := "`(x^2)` and `$y$`"
	res := s.Scan(text)
	require.Len(t, res.Ranges, 2)
	assert.Equal(t, types.RangeInlineMath, res.Ranges[0].Kind)
	assert.Equal(t, "x^2", text[res.Ranges[0].ContentStart:res.Ranges[0].ContentEnd])
	assert.Equal(t, types.RangeInlineCode, res.Ranges[1].Kind)
}

func TestScan_InlineCodeDoesNotCrossNewline(t *testing.T) {
	text := "a `b\nc` d"
	res := newScanner(t).Scan(text)
	assert.Empty(t, res.Ranges)
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, types.Span{Start: 0, End: len(text)}, res.Gaps[0])
}

// TestScan_RangesOrderedAndDisjoint 区间按顺序且互不重叠，gap 与区间拼起来覆盖全文
func TestScan_RangesOrderedAndDisjoint(t *testing.T) {
	text := strings.Join([]string{
		"# Title",
		"`$x$` then `code`",
		"```am",
		"a + b",
		"```",
		"~~~",
		"`$ignored$`",
		"~~~",
		"tail `$y$``z`",
	}, "\n")
	res := newScanner(t).Scan(text)

	covered := 0
	prevEnd := 0
	for _, r := range res.Ranges {
		if r.Start < prevEnd {
			t.Fatalf("range %v overlaps previous end %d", r, prevEnd)
		}
		assert.Less(t, r.Start, r.End)
		prevEnd = r.End
		covered += r.End - r.Start
	}
	for _, g := range res.Gaps {
		covered += g.Len()
	}
	assert.Equal(t, len(text), covered)
}
