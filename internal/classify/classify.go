// Package classify 启发式判断一段公式是否已经是 LaTeX
//
// 这不是完整解析：AsciiMath 很少出现 "\" 后跟两个以上字母的序列，
// 因此出现这种命令就认为公式已转换（或本来就是 LaTeX），保持原样以保证幂等。
//
// 已知误判：确实需要反斜杠字母序列的 AsciiMath 会被当成 LaTeX 跳过。
// 绕过方式是使用 tex"..." 嵌入语法，带嵌入标记的内容始终视为 AsciiMath。
package classify

import "regexp"

// Verdict 分类结果
type Verdict int

const (
	// Source AsciiMath 源码
	Source Verdict = iota
	// LikelyTarget 只有弱证据（如 ^{...}、_{...}）
	LikelyTarget
	// Target 已是 LaTeX
	Target
)

// String returns the string representation of Verdict.
func (v Verdict) String() string {
	switch v {
	case Source:
		return "source"
	case LikelyTarget:
		return "likely_target"
	case Target:
		return "target"
	default:
		return "unknown"
	}
}

var (
	// commandRe LaTeX 命令：反斜杠 + 至少两个字母
	commandRe = regexp.MustCompile(`\\[A-Za-z]{2,}`)

	// embedRe AsciiMath 中显式嵌入 LaTeX 的标记
	embedRe = regexp.MustCompile(`tex".*"`)

	// scriptRe 花括号包裹的上下标
	scriptRe = regexp.MustCompile(`[_^]\{[^{}]*\}`)
)

// Classify 返回内容的分类结果
func Classify(content string) Verdict {
	if embedRe.MatchString(content) {
		return Source
	}
	if commandRe.MatchString(content) {
		return Target
	}
	if scriptRe.MatchString(content) {
		return LikelyTarget
	}
	return Source
}

// IsAlreadyTargetNotation 内容含有 LaTeX 命令且不含 tex"..." 嵌入时返回 true
func IsAlreadyTargetNotation(content string) bool {
	return Classify(content) == Target
}
