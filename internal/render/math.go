package render

import (
	"bytes"

	"github.com/yuin/goldmark/util"
)

// MathRenderer 将 LaTeX 渲染为 HTML
type MathRenderer interface {
	Render(markup string, display bool) (string, error)
}

// HTMLRenderer 输出 MathJax/KaTeX 可识别的 \(…\) 与 \[…\] 容器
type HTMLRenderer struct {
	InlineClass  string
	DisplayClass string
}

// DefaultHTMLRenderer 默认 class 与 gitea 保持一致
var DefaultHTMLRenderer = HTMLRenderer{
	InlineClass:  "math inline",
	DisplayClass: "math display",
}

// Render 转义并包装
func (h HTMLRenderer) Render(markup string, display bool) (string, error) {
	var buf bytes.Buffer
	escaped := util.EscapeHTML([]byte(markup))
	if display {
		buf.WriteString(`<div class="`)
		buf.WriteString(h.DisplayClass)
		buf.WriteString(`">\[`)
		buf.Write(escaped)
		buf.WriteString(`\]</div>`)
	} else {
		buf.WriteString(`<span class="`)
		buf.WriteString(h.InlineClass)
		buf.WriteString(`">\(`)
		buf.Write(escaped)
		buf.WriteString(`\)</span>`)
	}
	return buf.String(), nil
}
