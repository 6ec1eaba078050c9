// Package render 预览渲染：goldmark 扩展，把已注册前缀的代码块和行内定界对交给 Handler
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/asciimath-go/internal/types"
)

// Extension goldmark 扩展
type Extension struct {
	Registry *Registry
	// Inline 行内定界对；Open 与 Close 去掉外层反引号后的部分用来识别 code span
	Inline types.DelimiterPair
	// InlineHandler 为 nil 时行内公式按普通 code span 输出
	InlineHandler Handler
}

// Extend 注册节点渲染器，优先级高于 goldmark 默认 HTML 渲染器
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&nodeRenderer{ext: e}, 100),
	))
}

type nodeRenderer struct {
	ext *Extension
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
}

func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var body bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		body.Write(line.Value(source))
	}

	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(source))
	}
	if r.ext.Registry != nil {
		if h, ok := r.ext.Registry.Lookup(info); ok {
			writeMath(w, h, strings.TrimSpace(body.String()), true)
			return ast.WalkSkipChildren, nil
		}
	}

	lang := n.Language(source)
	_, _ = w.WriteString("<pre><code")
	if len(lang) > 0 {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	_, _ = w.Write(util.EscapeHTML(body.Bytes()))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var raw bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			value := t.Segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				raw.Write(value[:len(value)-1])
				raw.WriteByte(' ')
			} else {
				raw.Write(value)
			}
		case *ast.String:
			raw.Write(t.Value)
		}
	}

	if content, ok := r.inlineContent(raw.String()); ok && r.ext.InlineHandler != nil {
		writeMath(w, r.ext.InlineHandler, content, false)
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString("<code>")
	_, _ = w.Write(util.EscapeHTML(raw.Bytes()))
	_, _ = w.WriteString("</code>")
	return ast.WalkSkipChildren, nil
}

// inlineContent code span 内容形如 Open[1:] … Close[:len-1] 时返回中间部分
func (r *nodeRenderer) inlineContent(raw string) (string, bool) {
	pair := r.ext.Inline
	if len(pair.Open) < 2 || len(pair.Close) < 2 {
		return "", false
	}
	open := pair.Open[1:]
	closing := pair.Close[:len(pair.Close)-1]
	if len(raw) < len(open)+len(closing) ||
		!strings.HasPrefix(raw, open) || !strings.HasSuffix(raw, closing) {
		return "", false
	}
	content := strings.TrimSpace(raw[len(open) : len(raw)-len(closing)])
	return content, content != ""
}

// writeMath 调用 h；失败时输出错误提示，保留源码
func writeMath(w util.BufWriter, h Handler, src string, display bool) {
	out, err := h(src, display)
	if err != nil {
		tag := "span"
		if display {
			tag = "pre"
		}
		_, _ = w.WriteString("<" + tag + ` class="asciimath-error" title="`)
		_, _ = w.Write(util.EscapeHTML([]byte(err.Error())))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(src)))
		_, _ = w.WriteString("</" + tag + ">")
		if display {
			_ = w.WriteByte('\n')
		}
		return
	}
	_, _ = w.WriteString(out)
	if display {
		_ = w.WriteByte('\n')
	}
}
