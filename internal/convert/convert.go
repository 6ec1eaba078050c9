// Package convert 将单个公式内容翻译为 LaTeX 并包装为 dollar 定界的替换文本
package convert

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/riverfjs/asciimath-go/internal/types"
	"github.com/riverfjs/asciimath-go/translator"
)

// braceRunRe 连续两个以上相同的花括号
var braceRunRe = regexp.MustCompile(`\{\{+|\}\}+`)

// Wrapping 替换文本的定界符
type Wrapping struct {
	BlockOpen   string
	BlockClose  string
	InlineOpen  string
	InlineClose string
}

// DefaultWrapping 块级 $$\n…\n$$，行内 $…$
var DefaultWrapping = Wrapping{
	BlockOpen:   "$$\n",
	BlockClose:  "\n$$",
	InlineOpen:  "$",
	InlineClose: "$",
}

// Pipeline 翻译 + 花括号规范化 + 包装
type Pipeline struct {
	tr   translator.Translator
	opts translator.Options
	wrap Wrapping
}

// New 创建 Pipeline
func New(tr translator.Translator, opts translator.Options, wrap Wrapping) *Pipeline {
	return &Pipeline{tr: tr, opts: opts, wrap: wrap}
}

// WithDisplay 返回只改变 display 模式的副本
func (p *Pipeline) WithDisplay(display bool) *Pipeline {
	c := *p
	c.opts.Display = display
	return &c
}

// Convert 翻译 content 并规范化花括号
//
// 翻译器失败时返回 *translator.Error，调用方据此保留原文。
func (p *Pipeline) Convert(ctx context.Context, content string) (string, error) {
	out, err := p.tr.Translate(ctx, content, p.opts)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var trErr *translator.Error
		if errors.As(err, &trErr) {
			return "", trErr
		}
		return "", &translator.Error{Source: content, Err: err}
	}
	return NormalizeBraces(out), nil
}

// Replacement 返回替换 m 整个原始区间的文本
func (p *Pipeline) Replacement(ctx context.Context, m types.FormulaMatch) (string, error) {
	markup, err := p.Convert(ctx, m.Content)
	if err != nil {
		return "", err
	}
	return p.Wrap(m.Kind, markup), nil
}

// Wrap 按公式类型包装
func (p *Pipeline) Wrap(kind types.FormulaKind, markup string) string {
	if kind == types.Block {
		return p.wrap.BlockOpen + markup + p.wrap.BlockClose
	}
	return p.wrap.InlineOpen + markup + p.wrap.InlineClose
}

// NormalizeBraces 将连续的相同花括号用空格隔开：{{ → { {，}}} → } } }
//
// 避免与模板语法（如 {{var}}）冲突。
func NormalizeBraces(s string) string {
	if !strings.Contains(s, "{{") && !strings.Contains(s, "}}") {
		return s
	}
	return braceRunRe.ReplaceAllStringFunc(s, func(run string) string {
		return strings.Join(strings.Split(run, ""), " ")
	})
}
