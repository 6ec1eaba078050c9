package convert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/asciimath-go/internal/types"
	"github.com/riverfjs/asciimath-go/translator"
)

// upper 测试用翻译器：大写并在 display 模式下加前缀
var upper = translator.Func(func(_ context.Context, source string, opts translator.Options) (string, error) {
	if source == "fail" {
		return "", errors.New("boom")
	}
	out := strings.ToUpper(source)
	if opts.Display {
		out = `\displaystyle ` + out
	}
	return out, nil
})

func TestNormalizeBraces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `\frac{a}{b}`, want: `\frac{a}{b}`},
		{in: `x^{{2}}`, want: `x^{ {2} }`},
		{in: `{{{a}}}`, want: `{ { {a} } }`},
		{in: `}}}`, want: `} } }`},
		{in: `{}{}`, want: `{}{}`},
		{in: ``, want: ``},
	}

	for _, tt := range tests {
		if got := NormalizeBraces(tt.in); got != tt.want {
			t.Errorf("NormalizeBraces(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPipeline_Replacement(t *testing.T) {
	p := New(upper, translator.Options{}, DefaultWrapping)
	ctx := context.Background()

	got, err := p.Replacement(ctx, types.FormulaMatch{Kind: types.Block, Content: "a+b"})
	require.NoError(t, err)
	assert.Equal(t, "$$\nA+B\n$$", got)

	got, err = p.Replacement(ctx, types.FormulaMatch{Kind: types.Inline, Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "$X$", got)
}

func TestPipeline_DisplayOption(t *testing.T) {
	p := New(upper, translator.Options{Display: true}, DefaultWrapping)
	got, err := p.Convert(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, `\displaystyle X`, got)
}

func TestPipeline_WithDisplay(t *testing.T) {
	p := New(upper, translator.Options{}, DefaultWrapping)
	ctx := context.Background()

	got, err := p.WithDisplay(true).Convert(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, `\displaystyle X`, got)

	// 原 Pipeline 不受影响
	got, err = p.Convert(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

func TestPipeline_TranslatorError(t *testing.T) {
	p := New(upper, translator.Options{}, DefaultWrapping)
	_, err := p.Convert(context.Background(), "fail")

	var trErr *translator.Error
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "fail", trErr.Source)
	assert.EqualError(t, trErr.Err, "boom")
}

func TestPipeline_Canceled(t *testing.T) {
	slow := translator.Func(func(ctx context.Context, _ string, _ translator.Options) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(slow, translator.Options{}, DefaultWrapping).Convert(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
