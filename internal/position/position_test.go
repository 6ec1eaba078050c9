package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "abc", want: 3},
		{in: "中文", want: 2},
		{in: "😀", want: 2},
		{in: "a😀b", want: 4},
	}
	for _, tt := range tests {
		if got := utf16Len(tt.in); got != tt.want {
			t.Errorf("utf16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIndex_RoundTrip(t *testing.T) {
	text := "ab\n中😀x\n\nend"
	x := New(text)

	tests := []struct {
		off int
		pos Pos
	}{
		{off: 0, pos: Pos{Line: 0, Ch: 0}},
		{off: 2, pos: Pos{Line: 0, Ch: 2}},
		{off: 3, pos: Pos{Line: 1, Ch: 0}},
		{off: 3 + len("中"), pos: Pos{Line: 1, Ch: 1}},
		{off: 3 + len("中😀"), pos: Pos{Line: 1, Ch: 3}},
		{off: len("ab\n中😀x\n"), pos: Pos{Line: 2, Ch: 0}},
		{off: len(text), pos: Pos{Line: 3, Ch: 3}},
	}

	for _, tt := range tests {
		got, err := x.OffsetToPos(tt.off)
		require.NoError(t, err)
		assert.Equal(t, tt.pos, got, "offset %d", tt.off)

		back, err := x.PosToOffset(tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.off, back, "pos %v", tt.pos)
	}
}

func TestIndex_Errors(t *testing.T) {
	x := New("a😀\nb")

	_, err := x.OffsetToPos(-1)
	assert.Error(t, err)
	_, err = x.OffsetToPos(100)
	assert.Error(t, err)
	_, err = x.OffsetToPos(2) // 😀 的中间字节
	assert.Error(t, err)

	_, err = x.PosToOffset(Pos{Line: 5})
	assert.Error(t, err)
	_, err = x.PosToOffset(Pos{Line: 0, Ch: 2}) // 代理对中间
	assert.Error(t, err)
	_, err = x.PosToOffset(Pos{Line: 0, Ch: 9})
	assert.Error(t, err)
}
