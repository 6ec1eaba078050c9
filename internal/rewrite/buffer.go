package rewrite

// tailBuffer 从文本末尾向前累积片段
type tailBuffer struct {
	parts []string
	size  int
}

func newTailBuffer(n int) *tailBuffer {
	return &tailBuffer{parts: make([]string, 0, n)}
}

// Prepend 在已累积内容之前追加 text
func (tb *tailBuffer) Prepend(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.size += len(text)
}

// Len 已累积的字节数
func (tb *tailBuffer) Len() int {
	return tb.size
}

// String 按文档顺序拼接
func (tb *tailBuffer) String() string {
	if len(tb.parts) == 0 {
		return ""
	}
	result := make([]byte, 0, tb.size)
	for i := len(tb.parts) - 1; i >= 0; i-- {
		result = append(result, tb.parts[i]...)
	}
	return string(result)
}
