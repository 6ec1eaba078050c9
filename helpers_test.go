package asciimath

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/asciimath-go/translator"
)

// fakeTranslator 测试用翻译器：输出总是带 \mathrm，含 "!!" 时报错
var fakeTranslator = translator.Func(func(_ context.Context, src string, opts translator.Options) (string, error) {
	if strings.Contains(src, "!!") {
		return "", errors.New("syntax error")
	}
	out := `\mathrm{` + src + `}`
	for _, s := range opts.Symbols {
		out = strings.ReplaceAll(out, s.Source, s.Target)
	}
	if opts.Display {
		out = `\displaystyle ` + out
	}
	return out, nil
})

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestConverter(t *testing.T, settings *Settings, opts ...Option) *Converter {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	conv, err := New(settings, fakeTranslator, opts...)
	require.NoError(t, err)
	return conv
}
