package asciimath

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/riverfjs/asciimath-go/internal/classify"
	"github.com/riverfjs/asciimath-go/internal/render"
)

// MathRenderer 将 LaTeX 渲染为 HTML
type MathRenderer = render.MathRenderer

// Previewer 把 Markdown 渲染为 HTML，AsciiMath 代码块与行内公式经翻译器转为 LaTeX 容器
//
// 与 Converter 共享配置，但不修改源文本。
type Previewer struct {
	conv     *Converter
	math     MathRenderer
	registry *render.Registry
}

// NewPreviewer 创建预览器；math 为 nil 时使用 MathJax 风格的默认渲染
func (c *Converter) NewPreviewer(math MathRenderer) *Previewer {
	if math == nil {
		math = render.DefaultHTMLRenderer
	}
	return &Previewer{conv: c, math: math, registry: render.NewRegistry()}
}

// Register 为当前配置的每个前缀注册处理函数
func (p *Previewer) Register(ctx context.Context) error {
	h := p.handler(ctx)
	for _, prefix := range p.conv.settings.Prefixes() {
		if err := p.registry.Register(prefix, h); err != nil {
			return errors.Wrapf(err, "register prefix %q", prefix)
		}
	}
	return nil
}

// Unregister 注销全部前缀，可重复调用
func (p *Previewer) Unregister() {
	p.registry.UnregisterAll()
}

// Prefixes 已注册的前缀
func (p *Previewer) Prefixes() []string {
	return p.registry.Prefixes()
}

func (p *Previewer) handler(ctx context.Context) render.Handler {
	return func(source string, display bool) (string, error) {
		if classify.IsAlreadyTargetNotation(source) {
			return p.math.Render(source, display)
		}
		markup, err := p.conv.pipeline.WithDisplay(display).Convert(ctx, source)
		if err != nil {
			return "", err
		}
		return p.math.Render(markup, display)
	}
}

// Render 渲染 Markdown
func (p *Previewer) Render(ctx context.Context, markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&render.Extension{
				Registry:      p.registry,
				Inline:        p.conv.settings.Inline,
				InlineHandler: p.handler(ctx),
			},
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}
