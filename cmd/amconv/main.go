// Command amconv 把 Markdown 文件或整个 vault 中的 AsciiMath 公式转换为 LaTeX
//
// 用法：
//
//	amconv convert [flags] <file-or-dir>
//	amconv preview [flags] <file>
//	amconv symbols [-selection text] <query>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"

	"github.com/riverfjs/asciimath-go"
	"github.com/riverfjs/asciimath-go/internal/symbols"
	"github.com/riverfjs/asciimath-go/translator"
)

// Config 命令行参数
type Config struct {
	Settings      string
	TranslatorURL string
	TranslatorCmd string
	Workers       int
	DryRun        bool
	Display       bool
	Lang          string
	Verbose       bool
	Metrics       bool
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(ctx, os.Args[2:], os.Stdout)
	case "preview":
		err = runPreview(ctx, os.Args[2:], os.Stdout)
	case "symbols":
		err = runSymbols(os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "amconv:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  amconv convert [flags] <file-or-dir>")
	fmt.Fprintln(w, "  amconv preview [flags] <file>")
	fmt.Fprintln(w, "  amconv symbols [-selection text] <query>")
}

func parseFlags(name string, args []string) (Config, []string, error) {
	var cfg Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Settings, "settings", "", "Settings file (YAML, or the plugin's data.json)")
	fs.StringVar(&cfg.TranslatorURL, "translator-url", os.Getenv("ASCIIMATH_TRANSLATOR_URL"), "HTTP translation service endpoint")
	fs.StringVar(&cfg.TranslatorCmd, "translator-cmd", os.Getenv("ASCIIMATH_TRANSLATOR_CMD"), "External translator command (reads AsciiMath on stdin)")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Number of documents converted concurrently")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Count conversions without writing files")
	fs.BoolVar(&cfg.Display, "display", false, "Translate in display style")
	fs.StringVar(&cfg.Lang, "lang", "en", "Language of the summary notice")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log skipped formulas")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Print conversion metrics after the run")
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	return cfg, fs.Args(), nil
}

func newTranslator(cfg Config) (asciimath.Translator, error) {
	switch {
	case cfg.TranslatorURL != "" && cfg.TranslatorCmd != "":
		return nil, errors.New("use only one of -translator-url and -translator-cmd")
	case cfg.TranslatorURL != "":
		return translator.NewHTTP(cfg.TranslatorURL, nil), nil
	case cfg.TranslatorCmd != "":
		return translator.NewCommand(cfg.TranslatorCmd)
	default:
		return nil, errors.New("a translator is required: set -translator-url or -translator-cmd")
	}
}

func newConverter(cfg Config) (*asciimath.Converter, asciimath.Metrics, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	asciimath.SetLogger(logger)

	settings := asciimath.DefaultSettings()
	if cfg.Settings != "" {
		s, err := asciimath.LoadSettings(cfg.Settings)
		if err != nil {
			return nil, nil, err
		}
		settings = s
	}

	tr, err := newTranslator(cfg)
	if err != nil {
		return nil, nil, err
	}

	metrics := asciimath.NewNoopMetrics()
	if cfg.Metrics {
		metrics = asciimath.NewMetrics()
	}
	opts := []asciimath.Option{
		asciimath.WithWorkers(cfg.Workers),
		asciimath.WithDryRun(cfg.DryRun),
		asciimath.WithMetrics(metrics),
	}
	if cfg.Display {
		opts = append(opts, asciimath.WithDisplayMode(true))
	}
	conv, err := asciimath.New(settings, tr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return conv, metrics, nil
}

func runConvert(ctx context.Context, args []string, out io.Writer) error {
	cfg, rest, err := parseFlags("convert", args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errors.New("convert needs exactly one file or directory")
	}
	conv, metrics, err := newConverter(cfg)
	if err != nil {
		return err
	}

	target := rest[0]
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	var counts asciimath.BatchCounts
	if info.IsDir() {
		res, err := conv.ConvertCollection(ctx, asciimath.NewDirStore(target))
		if res != nil {
			counts = res.BatchCounts
			for _, doc := range res.Failed {
				fmt.Fprintf(out, "FAILED %s: %v\n", doc.Ref, doc.Err)
			}
			for _, doc := range res.Documents {
				printDocument(out, doc, cfg.DryRun)
			}
		}
		if err != nil {
			return err
		}
	} else {
		store := asciimath.NewDirStore(filepath.Dir(target))
		doc, err := conv.ConvertDocument(ctx, store, filepath.Base(target))
		if err != nil {
			return err
		}
		printDocument(out, doc, cfg.DryRun)
		counts = asciimath.BatchCounts{Block: doc.Counts.Block, Inline: doc.Counts.Inline}
		if doc.Counts.Any() {
			counts.FileCount = 1
		}
	}

	fmt.Fprintln(out, asciimath.Summary(counts, cfg.Lang))
	if cfg.Metrics {
		return writeMetrics(out, metrics.GetRegistry())
	}
	return nil
}

func printDocument(out io.Writer, doc *asciimath.DocumentResult, dryRun bool) {
	if doc.Err != nil {
		return
	}
	for _, f := range doc.Failures {
		fmt.Fprintf(out, "WARN %s:%v\n", doc.Ref, f)
	}
	for _, w := range doc.Warnings {
		fmt.Fprintf(out, "WARN %s: %s\n", doc.Ref, w)
	}
	if !doc.Changed {
		return
	}
	action := "UPDATE"
	if dryRun {
		action = "PLAN-UPDATE"
	}
	fmt.Fprintf(out, "%s %s block=%d inline=%d\n", action, doc.Ref, doc.Counts.Block, doc.Counts.Inline)
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func runPreview(ctx context.Context, args []string, out io.Writer) error {
	cfg, rest, err := parseFlags("preview", args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errors.New("preview needs exactly one file")
	}
	conv, _, err := newConverter(cfg)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(rest[0])
	if err != nil {
		return err
	}

	p := conv.NewPreviewer(nil)
	if err := p.Register(ctx); err != nil {
		return err
	}
	defer p.Unregister()

	html, err := p.Render(ctx, string(data))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, html)
	return err
}

func runSymbols(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	selection := fs.String("selection", "", "Text the inserted symbol wraps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	for _, sym := range symbols.Search(symbols.Builtin(), query) {
		usage := sym.AsciiMath()
		if s, ok := sym.(symbols.TemplatedSymbol); ok {
			usage = s.AM + s.Template("")
		}
		// | 标出插入后的光标位置
		ins := sym.Insert(*selection)
		marked := ins.Text[:ins.Cursor] + "|" + ins.Text[ins.Cursor:]
		fmt.Fprintf(out, "%-8s %-16s %-20s %s\n", sym.AsciiMath(), usage, marked, sym.LaTeX())
	}
	return nil
}
