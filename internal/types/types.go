package types

import "fmt"

// FormulaKind 公式类型：行内或块级
type FormulaKind int

const (
	Inline FormulaKind = iota
	Block
)

// String returns the string representation of FormulaKind.
func (k FormulaKind) String() string {
	switch k {
	case Inline:
		return "inline"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// MatchSource 记录公式是被哪个检测器发现的
type MatchSource int

const (
	SourceFence      MatchSource = iota // ```asciimath ... ```
	SourceInlinePair                    // `$ ... $`
	SourceDollar                        // $...$ / $$...$$
)

// String returns the string representation of MatchSource.
func (s MatchSource) String() string {
	switch s {
	case SourceFence:
		return "fence"
	case SourceInlinePair:
		return "inline_pair"
	case SourceDollar:
		return "dollar"
	default:
		return "unknown"
	}
}

// Span 文档中的 [Start, End) 字节区间
type Span struct {
	Start int
	End   int
}

// Len 返回区间长度
func (s Span) Len() int { return s.End - s.Start }

// Contains 判断 o 是否完全落在 s 内
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Overlaps 判断两个区间是否相交
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// FormulaMatch 表示一个待转换的公式
//
// Start/End 是提取时原始文本中的字节偏移，Content 为去掉定界符并 trim 后的公式体。
type FormulaMatch struct {
	Kind    FormulaKind
	Start   int
	End     int
	Content string
	Source  MatchSource
}

// Span 返回公式覆盖的区间
func (m FormulaMatch) Span() Span { return Span{Start: m.Start, End: m.End} }

func (m FormulaMatch) String() string {
	return fmt.Sprintf("%s[%d:%d]", m.Kind, m.Start, m.End)
}

// RangeKind 扫描器识别出的代码区间类型
type RangeKind int

const (
	RangeFence      RangeKind = iota // 围栏代码块
	RangeInlineCode                  // 行内代码
	RangeInlineMath                  // 与行内定界符完全匹配的行内代码
)

// String returns the string representation of RangeKind.
func (k RangeKind) String() string {
	switch k {
	case RangeFence:
		return "fence"
	case RangeInlineCode:
		return "inline_code"
	case RangeInlineMath:
		return "inline_math"
	default:
		return "unknown"
	}
}

// CodeRange 围栏代码块或行内代码区间
//
// FormulaBearing 仅对带有已识别前缀且已闭合的围栏为 true；普通围栏和行内代码是排除区。
// ContentStart/ContentEnd 为去掉围栏行（或反引号）之后的内部区间。
type CodeRange struct {
	Start          int
	End            int
	Kind           RangeKind
	FormulaBearing bool
	Closed         bool
	Prefix         string
	ContentStart   int
	ContentEnd     int
}

// Span 返回整个区间
func (r CodeRange) Span() Span { return Span{Start: r.Start, End: r.End} }

// Excludes 是否为排除区（不能在其中发现公式）
func (r CodeRange) Excludes() bool {
	return r.Kind != RangeInlineMath && !r.FormulaBearing
}

// DelimiterPair 行内公式的定界符
type DelimiterPair struct {
	Open  string `yaml:"open" json:"open" validate:"amopen"`
	Close string `yaml:"close" json:"close" validate:"amclose"`
}

// Counts 转换计数
type Counts struct {
	Block  int `json:"block"`
	Inline int `json:"inline"`
}

// Add 累加另一个计数
func (c *Counts) Add(o Counts) {
	c.Block += o.Block
	c.Inline += o.Inline
}

// Inc 按公式类型加一
func (c *Counts) Inc(kind FormulaKind) {
	if kind == Block {
		c.Block++
	} else {
		c.Inline++
	}
}

// Total 返回公式总数
func (c Counts) Total() int { return c.Block + c.Inline }

// Any 是否至少转换了一个公式
func (c Counts) Any() bool { return c.Block > 0 || c.Inline > 0 }
