// Package translator 定义 AsciiMath → LaTeX 翻译器接口及几种适配器
//
// 语法解析本身不在本模块内：调用方注入任意实现了 Translator 的对象，
// 例如进程内函数（Func）、HTTP 翻译服务（HTTP）或外部命令（Command）。
package translator

import (
	"context"
	"fmt"
)

// SymbolRule 自定义符号：AsciiMath 中的 Source 被翻译为 LaTeX 的 Target
type SymbolRule struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Options 单次翻译选项
type Options struct {
	// Display 是否使用 display 样式（\displaystyle）
	Display bool
	// Symbols 自定义符号表
	Symbols []SymbolRule
}

// Translator 将 AsciiMath 源码翻译为 LaTeX
type Translator interface {
	Translate(ctx context.Context, source string, opts Options) (string, error)
}

// Func 函数适配器
type Func func(ctx context.Context, source string, opts Options) (string, error)

// Translate 调用 f
func (f Func) Translate(ctx context.Context, source string, opts Options) (string, error) {
	return f(ctx, source, opts)
}

// Error 翻译器拒绝某个公式时返回的错误
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate %q: %v", e.Source, e.Err)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error { return e.Err }
