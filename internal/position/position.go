// Package position 在字节偏移与编辑器的 行/列 坐标之间转换
//
// 编辑器以 UTF-16 码元计列，引擎内部一律使用字节偏移。
package position

import (
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Pos 编辑器坐标，Line 从 0 开始，Ch 为 UTF-16 码元
type Pos struct {
	Line int
	Ch   int
}

// Index 行首偏移表
type Index struct {
	text       string
	lineStarts []int
}

// utf16Len returns the length of text measured in UTF-16 code units.
func utf16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// New 为 text 建立索引
func New(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// Line 返回 off 所在的行号
func (x *Index) Line(off int) int {
	return sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > off
	}) - 1
}

// OffsetToPos 字节偏移 → 坐标
func (x *Index) OffsetToPos(off int) (Pos, error) {
	if off < 0 || off > len(x.text) {
		return Pos{}, errors.Errorf("offset %d out of range [0, %d]", off, len(x.text))
	}
	if off < len(x.text) && !utf8.RuneStart(x.text[off]) {
		return Pos{}, errors.Errorf("offset %d splits a UTF-8 sequence", off)
	}
	line := x.Line(off)
	return Pos{Line: line, Ch: utf16Len(x.text[x.lineStarts[line]:off])}, nil
}

// PosToOffset 坐标 → 字节偏移
func (x *Index) PosToOffset(p Pos) (int, error) {
	if p.Line < 0 || p.Line >= len(x.lineStarts) || p.Ch < 0 {
		return 0, errors.Errorf("position %d:%d out of range", p.Line, p.Ch)
	}
	start := x.lineStarts[p.Line]
	end := len(x.text)
	if p.Line+1 < len(x.lineStarts) {
		end = x.lineStarts[p.Line+1] - 1
	}

	units := 0
	for i, r := range x.text[start:end] {
		if units == p.Ch {
			return start + i, nil
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		if units > p.Ch {
			return 0, errors.Errorf("position %d:%d splits a surrogate pair", p.Line, p.Ch)
		}
	}
	if units == p.Ch {
		return end, nil
	}
	return 0, errors.Errorf("position %d:%d past end of line", p.Line, p.Ch)
}
