package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	var gotOpts Options
	f := Func(func(_ context.Context, source string, opts Options) (string, error) {
		gotOpts = opts
		return "<" + source + ">", nil
	})

	out, err := f.Translate(context.Background(), "a/b", Options{Display: true})
	require.NoError(t, err)
	assert.Equal(t, "<a/b>", out)
	assert.True(t, gotOpts.Display)
}

func TestHTTP_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))

		var req httpRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Source == "bad" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(httpResponse{Error: "unexpected token"})
			return
		}
		latex := `\frac{a}{b}`
		if req.Display {
			latex = `\displaystyle ` + latex
		}
		if len(req.Symbols) == 1 {
			latex += " " + req.Symbols[0].Target
		}
		_ = json.NewEncoder(w).Encode(httpResponse{Latex: latex})
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL, nil)
	tr.Header.Set("X-Token", "secret")

	out, err := tr.Translate(context.Background(), "a/b", Options{})
	require.NoError(t, err)
	assert.Equal(t, `\frac{a}{b}`, out)

	out, err = tr.Translate(context.Background(), "a/b", Options{
		Display: true,
		Symbols: []SymbolRule{{Source: "RR", Target: `\mathbb{R}`}},
	})
	require.NoError(t, err)
	assert.Equal(t, `\displaystyle \frac{a}{b} \mathbb{R}`, out)

	_, err = tr.Translate(context.Background(), "bad", Options{})
	var trErr *Error
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, "bad", trErr.Source)
	assert.Contains(t, err.Error(), "unexpected token")
}

func TestHTTP_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTP(srv.URL, nil).Translate(ctx, "x", Options{})
	assert.Error(t, err)
}

func TestNewCommand(t *testing.T) {
	_, err := NewCommand("   ")
	assert.Error(t, err)

	c, err := NewCommand("am2tex --stdin")
	require.NoError(t, err)
	assert.Equal(t, "am2tex", c.Name)
	assert.Equal(t, []string{"--stdin"}, c.Args)
	assert.Equal(t, "--display", c.DisplayFlag)
}
