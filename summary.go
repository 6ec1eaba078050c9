package asciimath

import (
	"embed"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed i18n/*.yaml
var i18nFiles embed.FS

var (
	i18nBundle     *i18n.Bundle
	i18nBundleOnce sync.Once
)

func bundle() *i18n.Bundle {
	i18nBundleOnce.Do(func() {
		i18nBundle = i18n.NewBundle(language.English)
		i18nBundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
		_, _ = i18nBundle.LoadMessageFileFS(i18nFiles, "i18n/zh.yaml")
	})
	return i18nBundle
}

var (
	msgBlocks = &i18n.Message{ID: "summary.blocks", One: "{{.Count}} block", Other: "{{.Count}} blocks"}
	msgInline = &i18n.Message{ID: "summary.inline", One: "{{.Count}} inline formula", Other: "{{.Count}} inline formulas"}
	msgFiles  = &i18n.Message{ID: "summary.files", One: "{{.Count}} file", Other: "{{.Count}} files"}

	msgConverted = &i18n.Message{ID: "summary.converted", Other: "Converted {{.Blocks}} and {{.Inline}} in {{.Files}}."}
	msgNothing   = &i18n.Message{ID: "summary.nothing", Other: "No formulas to convert."}
)

// Summary 生成转换完成提示，lang 为 BCP 47 语言标签（如 en、zh-CN）
func Summary(counts BatchCounts, lang string) string {
	loc := i18n.NewLocalizer(bundle(), lang)
	if counts.Block+counts.Inline == 0 {
		return localize(loc, msgNothing, nil, nil)
	}
	return localize(loc, msgConverted, nil, map[string]interface{}{
		"Blocks": localize(loc, msgBlocks, counts.Block, map[string]interface{}{"Count": counts.Block}),
		"Inline": localize(loc, msgInline, counts.Inline, map[string]interface{}{"Count": counts.Inline}),
		"Files":  localize(loc, msgFiles, counts.FileCount, map[string]interface{}{"Count": counts.FileCount}),
	})
}

func localize(loc *i18n.Localizer, msg *i18n.Message, count interface{}, data map[string]interface{}) string {
	out, err := loc.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		PluralCount:    count,
		TemplateData:   data,
	})
	if err != nil {
		return msg.Other
	}
	return out
}
