package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	table := Builtin()
	require.NotEmpty(t, table)

	var simple, templated int
	for _, s := range table {
		switch s.(type) {
		case SimpleSymbol:
			simple++
			assert.Equal(t, Simple, s.Kind())
		case TemplatedSymbol:
			templated++
			assert.Equal(t, Templated, s.Kind())
		}
	}
	assert.Positive(t, simple)
	assert.Positive(t, templated)
}

func TestSearch(t *testing.T) {
	table := Builtin()

	got := Search(table, "VEC")
	require.Len(t, got, 1)
	assert.Equal(t, "vec", got[0].AsciiMath())
	assert.Equal(t, `\vec{v}`, got[0].LaTeX())

	// LaTeX 写法也参与匹配
	got = Search(table, "infty")
	require.Len(t, got, 1)
	assert.Equal(t, "oo", got[0].AsciiMath())

	assert.Empty(t, Search(table, "no-such-symbol"))
}

func TestSimpleSymbol_Insert(t *testing.T) {
	ins := SimpleSymbol{AM: "alpha", TeX: `\alpha`}.Insert("ignored")
	assert.Equal(t, Insertion{Text: "alpha", Cursor: 5}, ins)
}

func TestTemplatedSymbol_Insert(t *testing.T) {
	frac := TemplatedSymbol{AM: "frac", TeX: `\frac{$1}{$2}`, Placeholder: "($1)($2)", Fill: []string{"a", "b"}}
	pp := TemplatedSymbol{AM: "pp", Placeholder: "^$3 ($1)($2)", Fill: []string{"f", "x", "2"}}
	color := TemplatedSymbol{AM: "color", Placeholder: "($2)($1)", Fill: []string{"x", "red"}}
	sqrt := TemplatedSymbol{AM: "sqrt", Placeholder: "($1)", Fill: []string{"x"}}

	tests := []struct {
		name string
		sym  TemplatedSymbol
		sel  string
		want Insertion
	}{
		{name: "frac empty", sym: frac, want: Insertion{Text: "frac()()", Cursor: 5}},
		{name: "frac selection", sym: frac, sel: "abc", want: Insertion{Text: "frac(abc)()", Cursor: 10}},
		{name: "pp empty", sym: pp, want: Insertion{Text: "pp^ ()()", Cursor: 5}},
		{name: "pp selection", sym: pp, sel: "abc", want: Insertion{Text: "pp^ (abc)()", Cursor: 10}},
		{name: "color selection", sym: color, sel: "abc", want: Insertion{Text: "color()(abc)", Cursor: 6}},
		{name: "sqrt selection", sym: sqrt, sel: "x+1", want: Insertion{Text: "sqrt(x+1)", Cursor: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sym.Insert(tt.sel))
		})
	}
}

func TestTemplatedSymbol_Template(t *testing.T) {
	frac := TemplatedSymbol{AM: "frac", Placeholder: "($1)($2)", Fill: []string{"a", "b"}}
	assert.Equal(t, "(a)(b)", frac.Template(""))
	assert.Equal(t, "(x)(b)", frac.Template("x"))
}

func TestParse(t *testing.T) {
	syms, err := Parse([]byte(`[{"am": "oo", "tex": "\\infty"}, {"am": "hat", "tex": "\\hat{$1}", "placeholder": "($1)", "fill": ["x"]}]`))
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.Equal(t, SimpleSymbol{AM: "oo", TeX: `\infty`}, syms[0])
	assert.Equal(t, `\hat{x}`, syms[1].LaTeX())

	_, err = Parse([]byte(`[{"tex": "x"}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{not a list`))
	assert.Error(t, err)
}
