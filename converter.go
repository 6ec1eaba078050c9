package asciimath

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/riverfjs/asciimath-go/internal/classify"
	"github.com/riverfjs/asciimath-go/internal/convert"
	"github.com/riverfjs/asciimath-go/internal/extract"
	"github.com/riverfjs/asciimath-go/internal/position"
	"github.com/riverfjs/asciimath-go/internal/rewrite"
	"github.com/riverfjs/asciimath-go/internal/scanner"
	"github.com/riverfjs/asciimath-go/internal/types"
	"github.com/riverfjs/asciimath-go/translator"
)

// MaxSelectionLength 超过该字符数的选区需要确认后再转换
const MaxSelectionLength = 1000

// deprecationWarning 行内代码公式的废弃提示
const deprecationWarning = "inline code math is deprecated; prefer $...$"

// Converter 公式发现、分类与改写
//
// 单个文档的处理是同步的；ConvertCollection 在多个文档间并行。
// Converter 创建后只读，可被多个 goroutine 共享。
type Converter struct {
	settings  *Settings
	opts      *ConvertOptions
	scanner   *scanner.Scanner
	extractor *extract.Extractor
	pipeline  *convert.Pipeline
	log       logrus.FieldLogger
}

// SkippedFormula 因已是 LaTeX 而保留的候选
type SkippedFormula struct {
	Match  FormulaMatch
	Reason string
}

// Result 单个文本的转换结果
type Result struct {
	Text    string
	Changed bool
	Counts  Counts
	// Converted 已改写的公式（原文中的位置）
	Converted []FormulaMatch
	Skipped   []SkippedFormula
	Failures  TranslationErrors
	Warnings  []string
}

// Warning 汇总翻译失败，没有失败时返回 nil
func (r *Result) Warning() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return r.Failures
}

// New 创建 Converter；settings 为 nil 时使用 DefaultSettings
func New(settings *Settings, tr Translator, opts ...Option) (*Converter, error) {
	if settings == nil {
		settings = DefaultSettings()
	}
	settings = settings.Clone()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, &ConfigError{Field: "translator", Reason: "a translator is required"}
	}

	options := applyOptions(opts...)
	sc, err := scanner.New(settings.Prefixes(), settings.Inline)
	if err != nil {
		return nil, &ConfigError{Field: "inline", Reason: "cannot build scanner", Err: err}
	}

	display := settings.DisplayMode
	if options.Display != nil {
		display = *options.Display
	}
	trOpts := translator.Options{Display: display, Symbols: settings.Symbols()}

	return &Converter{
		settings: settings,
		opts:     options,
		scanner:  sc,
		extractor: extract.New(extract.Options{
			DollarMath:       settings.DollarMath,
			ConvertLikelyTarget: settings.ConvertLikelyLatex,
		}),
		pipeline: convert.New(tr, trOpts, options.Wrapping),
		log:      options.Logger,
	}, nil
}

// Settings 返回生效的配置副本
func (c *Converter) Settings() *Settings {
	return c.settings.Clone()
}

// find 只做发现与分类，不翻译
func (c *Converter) find(text string) (extract.Extraction, error) {
	ex, err := c.extractor.Extract(text, c.scanner.Scan(text))
	if err != nil {
		return extract.Extraction{}, &ExtractionError{Err: err}
	}
	return ex, nil
}

// ConvertText 转换一段完整文本
//
// 翻译失败的公式原样保留并记录在 Result.Failures 中；只有偏移无法解析
// 或 ctx 取消时才返回错误。
func (c *Converter) ConvertText(ctx context.Context, text string) (*Result, error) {
	return c.convertText(ctx, text, c.log)
}

func (c *Converter) convertText(ctx context.Context, text string, log logrus.FieldLogger) (*Result, error) {
	ex, err := c.find(text)
	if err != nil {
		return nil, err
	}

	idx := position.New(text)
	res := &Result{Text: text}

	for _, s := range ex.Skipped {
		reason := "already LaTeX"
		if s.Verdict == classify.LikelyTarget {
			reason = "likely LaTeX"
		}
		res.Skipped = append(res.Skipped, SkippedFormula{Match: s.Match, Reason: reason})
		c.opts.Metrics.ObserveFormulaSkipped(s.Match.Kind)
		log.WithFields(logrus.Fields{
			"kind":  s.Match.Kind,
			"start": s.Match.Start,
			"line":  idx.Line(s.Match.Start) + 1,
		}).Debugf("skip formula: %s", reason)
	}
	for _, m := range ex.Likely {
		log.WithFields(logrus.Fields{
			"kind": m.Kind,
			"line": idx.Line(m.Start) + 1,
		}).Warnf("formula %q looks like LaTeX but has no commands; converting anyway", m.Content)
	}

	edits := make([]rewrite.Edit, 0, len(ex.Matches))
	deprecated := false
	for _, m := range ex.Matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		repl, err := c.pipeline.Replacement(ctx, m)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			pos, perr := locate(idx, m)
			if perr != nil {
				return nil, perr
			}
			var trErr *translator.Error
			if errors.As(err, &trErr) {
				err = trErr.Err
			}
			res.Failures = append(res.Failures, &TranslationError{Match: m, Pos: pos, Err: err})
			c.opts.Metrics.IncrementTranslationFailures()
			log.WithFields(logrus.Fields{
				"kind": m.Kind,
				"line": pos.Line + 1,
			}).WithError(err).Warn("translation failed, formula left in place")
			continue
		}
		if m.Source == types.SourceInlinePair {
			deprecated = true
		}
		// 翻译结果与原文相同（如 $a+b$）不算作一次转换
		if repl == text[m.Start:m.End] {
			continue
		}
		edits = append(edits, rewrite.Edit{Start: m.Start, End: m.End, Text: repl})
		res.Converted = append(res.Converted, m)
		res.Counts.Inc(m.Kind)
		c.opts.Metrics.ObserveFormulaConverted(m.Kind)
	}

	out, err := rewrite.Apply(text, edits)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	res.Text = out
	res.Changed = out != text
	if deprecated && !c.settings.DisableDeprecationWarning {
		res.Warnings = append(res.Warnings, deprecationWarning)
	}
	return res, nil
}

// locate 公式起点的编辑器坐标，偏移无法解析属于内部错误
func locate(idx *position.Index, m FormulaMatch) (Pos, error) {
	pos, err := idx.OffsetToPos(m.Start)
	if err != nil {
		return Pos{}, &ExtractionError{Err: errors.Wrapf(err, "locate %s formula %q", m.Kind, m.Content)}
	}
	return pos, nil
}

// Selection ConvertSelection 的结果
type Selection struct {
	// Text 转换后的 LaTeX；NeedsConfirm 时为空
	Text string
	// NeedsConfirm 选区过长或看起来已是 LaTeX，需要调用方确认后以 force 重试
	NeedsConfirm bool
	Warning      string
}

// ConvertSelection 把用户精确选中的一段 AsciiMath 转为 LaTeX（不加定界符）
func (c *Converter) ConvertSelection(ctx context.Context, selection string, force bool) (*Selection, error) {
	var warning string
	switch {
	case utf8.RuneCountInString(selection) > MaxSelectionLength:
		warning = "the selection is over 1000 chars; make sure it is exactly one AsciiMath expression"
	case classify.IsAlreadyTargetNotation(selection):
		warning = "the selection may already be LaTeX"
	}
	if warning != "" && !force {
		return &Selection{NeedsConfirm: true, Warning: warning}, nil
	}

	out, err := c.pipeline.Convert(ctx, selection)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var trErr *translator.Error
		if errors.As(err, &trErr) {
			err = trErr.Err
		}
		return nil, &TranslationError{Match: FormulaMatch{Kind: Inline, Content: selection, End: len(selection)}, Err: err}
	}
	return &Selection{Text: out, Warning: warning}, nil
}

// InsertBlock 用首选前缀的围栏包住 selection；cursor 为内容行末尾的字节偏移
func (c *Converter) InsertBlock(selection string) (text string, cursor int) {
	prefix := "asciimath"
	if ps := c.settings.Prefixes(); len(ps) > 0 {
		prefix = ps[0]
	}
	head := "```" + prefix + "\n" + selection
	return head + "\n```", len(head)
}

// ConvertRange 转换 text 中 [from, to) 的选区并返回整段新文本，坐标以 UTF-16 计列
//
// 需要确认时 Selection.NeedsConfirm 为 true，text 原样返回。
func (c *Converter) ConvertRange(ctx context.Context, text string, from, to Pos, force bool) (string, *Selection, error) {
	idx := position.New(text)
	start, err := idx.PosToOffset(from)
	if err != nil {
		return text, nil, errors.Wrap(err, "selection start")
	}
	end, err := idx.PosToOffset(to)
	if err != nil {
		return text, nil, errors.Wrap(err, "selection end")
	}
	if end < start {
		start, end = end, start
	}

	sel, err := c.ConvertSelection(ctx, text[start:end], force)
	if err != nil || sel.NeedsConfirm {
		return text, sel, err
	}
	return text[:start] + sel.Text + text[end:], sel, nil
}
