// Package symbols AsciiMath 符号表
//
// 符号分两类：SimpleSymbol 直接插入 AsciiMath 写法；TemplatedSymbol 带参数占位符，
// 插入时用选区填充 $1 并计算光标位置。
package symbols

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed symbols.yaml
var builtinYAML []byte

// markerRe 占位符参数 $1、$2…
var markerRe = regexp.MustCompile(`\$\d+`)

// Kind 符号类型
type Kind int

const (
	Simple Kind = iota
	Templated
)

func (k Kind) String() string {
	if k == Templated {
		return "templated"
	}
	return "simple"
}

// Symbol 符号
type Symbol interface {
	Kind() Kind
	// AsciiMath 返回 AsciiMath 写法
	AsciiMath() string
	// LaTeX 返回 LaTeX 写法，模板符号中的参数以示例值填充
	LaTeX() string
	// Insert 返回用 selection 插入该符号时的文本与光标
	Insert(selection string) Insertion
}

// Insertion 插入结果；Cursor 为插入后光标相对 Text 起点的字节偏移
type Insertion struct {
	Text   string
	Cursor int
}

// SimpleSymbol 无参数符号
type SimpleSymbol struct {
	AM  string
	TeX string
}

func (s SimpleSymbol) Kind() Kind        { return Simple }
func (s SimpleSymbol) AsciiMath() string { return s.AM }
func (s SimpleSymbol) LaTeX() string     { return s.TeX }

// Insert 直接替换选区
func (s SimpleSymbol) Insert(string) Insertion {
	return Insertion{Text: s.AM, Cursor: len(s.AM)}
}

// TemplatedSymbol 带参数的符号，如 frac($1)($2)
type TemplatedSymbol struct {
	AM          string
	TeX         string
	Placeholder string
	Fill        []string
}

func (s TemplatedSymbol) Kind() Kind        { return Templated }
func (s TemplatedSymbol) AsciiMath() string { return s.AM }

// LaTeX 以 Fill 填充参数
func (s TemplatedSymbol) LaTeX() string {
	return fill(s.TeX, s.Fill)
}

// Template 预览模板：$1 优先用 selection，其余参数用 Fill
func (s TemplatedSymbol) Template(selection string) string {
	tpl := s.Placeholder
	if selection != "" {
		tpl = strings.Replace(tpl, "$1", selection, 1)
	}
	return fill(tpl, s.Fill)
}

// Insert 生成插入文本
//
// 无选区时所有参数留空，光标落在 $1 处；有选区时 $1 填入选区，
// 光标落在 $2 处，没有 $2 则落在末尾。
func (s TemplatedSymbol) Insert(selection string) Insertion {
	if selection == "" {
		text, pos := strip(s.Placeholder, "$1")
		return Insertion{Text: s.AM + text, Cursor: len(s.AM) + pos}
	}

	withSel := strings.Replace(s.Placeholder, "$1", selection, 1)
	text, pos := strip(withSel, "$2")
	if pos < 0 {
		return Insertion{Text: s.AM + text, Cursor: len(s.AM) + len(text)}
	}
	return Insertion{Text: s.AM + text, Cursor: len(s.AM) + pos}
}

// strip 删除 tpl 中所有参数标记，返回结果与 mark 在结果中的位置（不存在为 -1）
func strip(tpl, mark string) (string, int) {
	pos := -1
	var b strings.Builder
	last := 0
	for _, loc := range markerRe.FindAllStringIndex(tpl, -1) {
		b.WriteString(tpl[last:loc[0]])
		if pos < 0 && tpl[loc[0]:loc[1]] == mark {
			pos = b.Len()
		}
		last = loc[1]
	}
	b.WriteString(tpl[last:])
	return b.String(), pos
}

// fill 用 values 依次替换 $1…$n
func fill(tpl string, values []string) string {
	return markerRe.ReplaceAllStringFunc(tpl, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(values) {
			return m
		}
		return values[n-1]
	})
}

type rawSymbol struct {
	AM          string   `yaml:"am"`
	TeX         string   `yaml:"tex"`
	Placeholder string   `yaml:"placeholder"`
	Fill        []string `yaml:"fill"`
}

// Parse 解析 YAML（或 JSON）符号表
func Parse(data []byte) ([]Symbol, error) {
	var raws []rawSymbol
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrap(err, "failed to parse symbol table")
	}

	out := make([]Symbol, 0, len(raws))
	for i, r := range raws {
		if r.AM == "" {
			return nil, errors.Errorf("symbol #%d: am is empty", i)
		}
		if r.Placeholder == "" {
			out = append(out, SimpleSymbol{AM: r.AM, TeX: r.TeX})
			continue
		}
		out = append(out, TemplatedSymbol{AM: r.AM, TeX: r.TeX, Placeholder: r.Placeholder, Fill: r.Fill})
	}
	return out, nil
}

var (
	builtinOnce sync.Once
	builtin     []Symbol
)

// Builtin 内置符号表
func Builtin() []Symbol {
	builtinOnce.Do(func() {
		syms, err := Parse(builtinYAML)
		if err != nil {
			panic(err)
		}
		builtin = syms
	})
	return builtin
}

// Search 按 AsciiMath 或 LaTeX 写法做不区分大小写的子串匹配
func Search(table []Symbol, query string) []Symbol {
	query = strings.ToLower(query)
	var out []Symbol
	for _, s := range table {
		if strings.Contains(strings.ToLower(s.AsciiMath()), query) ||
			strings.Contains(strings.ToLower(s.LaTeX()), query) {
			out = append(out, s)
		}
	}
	return out
}
