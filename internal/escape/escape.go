package escape

import "strings"

// special 在正则中有结构意义的字符
const special = `$^\.()[]{}*?|+`

// Normalize 将用户配置的定界符字面量转换为可嵌入正则表达式的片段
//
// 每个特殊字符前都会加上反斜杠。只应对同一个字面量调用一次。
func Normalize(literal string) string {
	var b strings.Builder
	b.Grow(len(literal) * 2)
	for i := 0; i < len(literal); i++ {
		c := literal[i]
		if strings.IndexByte(special, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
