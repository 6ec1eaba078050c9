package asciimath

import (
	"fmt"
	"strings"

	"github.com/riverfjs/asciimath-go/internal/position"
)

// ConfigError 配置非法，在任何扫描之前返回
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid settings: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid settings: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExtractionError 偏移量无法解析，仅中止当前文档
type ExtractionError struct {
	Ref string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("extraction failed in %s: %v", e.Ref, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TranslationError 单个公式翻译失败，原文保留
type TranslationError struct {
	Match FormulaMatch
	// Pos 公式起点在编辑器中的坐标
	Pos position.Pos
	Err error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("line %d: cannot translate %s %q: %v", e.Pos.Line+1, e.Match.Kind, e.Match.Content, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// TranslationErrors 一个文档内的全部翻译失败
type TranslationErrors []*TranslationError

func (es TranslationErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d formulas failed to translate:\n  %s", len(es), strings.Join(msgs, "\n  "))
}

// StorageError 文档读写失败，批处理继续
type StorageError struct {
	Ref string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
