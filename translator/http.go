package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultHTTPTimeout HTTP 翻译器默认超时
const DefaultHTTPTimeout = 10 * time.Second

// maxResponseSize 响应体上限
const maxResponseSize = 1 << 20

// HTTP 通过 JSON 接口调用远程翻译服务
//
// 请求：POST {"source": "...", "display": false, "symbols": [...]}
// 响应：{"latex": "..."}，失败时 {"error": "..."} 或非 200 状态码。
type HTTP struct {
	URL    string
	Client *http.Client
	Header http.Header
}

type httpRequest struct {
	Source  string       `json:"source"`
	Display bool         `json:"display"`
	Symbols []SymbolRule `json:"symbols,omitempty"`
}

type httpResponse struct {
	Latex string `json:"latex"`
	Error string `json:"error,omitempty"`
}

// NewHTTP 创建 HTTP 翻译器，client 为 nil 时使用带默认超时的客户端
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{
			Timeout: DefaultHTTPTimeout,
		}
	}
	return &HTTP{URL: url, Client: client, Header: make(http.Header)}
}

// Translate 发送翻译请求
func (h *HTTP) Translate(ctx context.Context, source string, opts Options) (string, error) {
	body, err := json.Marshal(httpRequest{
		Source:  source,
		Display: opts.Display,
		Symbols: opts.Symbols,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode translate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build translate request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range h.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to call translator")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", errors.Wrap(err, "failed to read translator response")
	}

	var out httpResponse
	if jsonErr := json.Unmarshal(data, &out); jsonErr != nil && resp.StatusCode == http.StatusOK {
		return "", errors.Wrap(jsonErr, "failed to decode translator response")
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return "", &Error{Source: source, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)}
	}
	if out.Error != "" {
		return "", &Error{Source: source, Err: errors.New(out.Error)}
	}
	return out.Latex, nil
}
