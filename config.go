package asciimath

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/riverfjs/asciimath-go/internal/position"
	"github.com/riverfjs/asciimath-go/internal/types"
	"github.com/riverfjs/asciimath-go/translator"
)

// 导出类型别名
type FormulaKind = types.FormulaKind
type FormulaMatch = types.FormulaMatch
type DelimiterPair = types.DelimiterPair
type Counts = types.Counts
type SymbolRule = translator.SymbolRule
type Translator = translator.Translator
type Pos = position.Pos

const (
	Inline = types.Inline
	Block  = types.Block
)

// Settings 与宿主插件 data.json 的字段一一对应
type Settings struct {
	// BlockPrefixes 公式代码块可识别的前缀，如 asciimath、am
	BlockPrefixes []string `yaml:"blockPrefix" json:"blockPrefix" validate:"amprefixes"`
	// Inline 行内公式定界符，形如 `$ 与 $`
	Inline DelimiterPair `yaml:"inline" json:"inline"`
	// CustomSymbols 每行两项：AsciiMath 符号、LaTeX 符号
	CustomSymbols [][]string `yaml:"customSymbols" json:"customSymbols" validate:"dive,amsymbol"`
	// DollarMath 把 $…$ 与 $$…$$ 中的 AsciiMath 也当作候选（宿主键名 replaceMathBlock）
	DollarMath bool `yaml:"replaceMathBlock" json:"replaceMathBlock"`
	// DisableDeprecationWarning 行内代码公式已废弃，关闭提示
	DisableDeprecationWarning bool `yaml:"disableDeprecationWarning" json:"disableDeprecationWarning"`
	// DisplayMode 以 display 样式翻译
	DisplayMode bool `yaml:"displayMode" json:"displayMode"`
	// ConvertLikelyLatex 只有弱 LaTeX 证据（如 x^{2}）的公式也照常转换；默认跳过
	ConvertLikelyLatex bool `yaml:"convertLikelyLatex" json:"convertLikelyLatex"`
}

var (
	defaultSettings     *Settings
	defaultSettingsOnce sync.Once
)

// DefaultSettings returns the default settings (singleton). Callers must Clone before mutating.
func DefaultSettings() *Settings {
	defaultSettingsOnce.Do(func() {
		defaultSettings = &Settings{
			BlockPrefixes: []string{"asciimath", "am"},
			Inline:        DelimiterPair{Open: "`$", Close: "$`"},
			CustomSymbols: [][]string{},
			DollarMath:    true,
		}
	})
	return defaultSettings
}

// Clone 深拷贝
func (s *Settings) Clone() *Settings {
	c := *s
	c.BlockPrefixes = append([]string(nil), s.BlockPrefixes...)
	c.CustomSymbols = make([][]string, len(s.CustomSymbols))
	for i, r := range s.CustomSymbols {
		c.CustomSymbols[i] = append([]string(nil), r...)
	}
	return &c
}

// Validate 校验配置，失败返回 *ConfigError
func (s *Settings) Validate() error {
	return validateSettings(s)
}

// Symbols 返回翻译器使用的自定义符号表
func (s *Settings) Symbols() []SymbolRule {
	out := make([]SymbolRule, 0, len(s.CustomSymbols))
	for _, rule := range s.CustomSymbols {
		if len(rule) != 2 {
			continue
		}
		out = append(out, SymbolRule{Source: strings.TrimSpace(rule[0]), Target: strings.TrimSpace(rule[1])})
	}
	return out
}

// Prefixes 去掉空白项后的前缀列表
func (s *Settings) Prefixes() []string {
	out := make([]string, 0, len(s.BlockPrefixes))
	for _, p := range s.BlockPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadSettings 读取 YAML 或 JSON 配置，缺失字段取默认值
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Ref: path, Op: "read", Err: err}
	}
	s := DefaultSettings().Clone()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, &ConfigError{Field: filepath.Base(path), Reason: "parse failed", Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSettings 以 YAML 写出配置
func SaveSettings(path string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &StorageError{Ref: path, Op: "write", Err: err}
	}
	return nil
}
