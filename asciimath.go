// Package asciimath 在 Markdown 文档中发现、分类并安全改写 AsciiMath 公式
//
// 这个包把嵌在 Markdown 中的 AsciiMath 转换为 LaTeX（$…$ 与 $$…$$），
// 可以处理单段文本、单个文档或整个 vault。
//
// 核心功能：
//   - 识别带前缀（asciimath、am）的公式代码块、行内定界对（`$…$`）以及 dollar 公式
//   - 排除普通代码块与行内代码，跳过已经是 LaTeX 的公式
//   - 通过注入的 Translator 翻译，从文末向文首替换，偏移不会错位
//   - 多文档并行转换，汇总公式数与文件数
//   - 预览渲染（goldmark）
//
// 主要 API：
//   - New(): 创建 Converter
//   - Converter.ConvertText(): 转换一段文本
//   - Converter.ConvertDocument() / ConvertCollection(): 转换存储中的文档
//
// 示例：
//
//	tr := translator.NewHTTP("http://localhost:8080/translate", nil)
//	conv, err := asciimath.New(nil, tr)
//	if err != nil {
//	    return err
//	}
//	res, err := conv.ConvertCollection(ctx, asciimath.NewDirStore("./vault"))
//	fmt.Println(asciimath.Summary(res.BatchCounts, "en"))
package asciimath

import (
	"context"
)

// ConvertText 使用默认配置转换 text
//
// 对于重复调用或需要自定义配置的场景，使用 New 创建 Converter。
func ConvertText(ctx context.Context, text string, tr Translator) (string, Counts, error) {
	conv, err := New(nil, tr)
	if err != nil {
		return "", Counts{}, err
	}
	res, err := conv.ConvertText(ctx, text)
	if err != nil {
		return "", Counts{}, err
	}
	return res.Text, res.Counts, res.Warning()
}
