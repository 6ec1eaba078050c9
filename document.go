package asciimath

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DocumentResult 单个文档的结果
type DocumentResult struct {
	Ref string
	*Result
	// Written 是否已写回存储（dry-run 或无变化时为 false）
	Written bool
	Err     error
}

// ConvertDocument 读取、转换并在文本变化时写回
func (c *Converter) ConvertDocument(ctx context.Context, store Store, ref string) (*DocumentResult, error) {
	log := c.log.WithField("doc", ref)

	text, err := store.Read(ctx, ref)
	if err != nil {
		return nil, wrapStorage(err, ref, "read")
	}

	res, err := c.convertText(ctx, text, log)
	if err != nil {
		var exErr *ExtractionError
		if errors.As(err, &exErr) && exErr.Ref == "" {
			exErr.Ref = ref
		}
		return nil, err
	}

	doc := &DocumentResult{Ref: ref, Result: res}
	if !res.Changed || c.opts.DryRun {
		return doc, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Write(ctx, ref, res.Text); err != nil {
		return nil, wrapStorage(err, ref, "write")
	}
	doc.Written = true
	log.WithFields(logrus.Fields{
		"block":  res.Counts.Block,
		"inline": res.Counts.Inline,
	}).Info("document converted")
	return doc, nil
}

func wrapStorage(err error, ref, op string) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Ref: ref, Op: op, Err: err}
}
