package asciimath

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BatchCounts 批处理合计；FileCount 为至少转换了一个公式的文档数
type BatchCounts struct {
	Block     int
	Inline    int
	FileCount int
}

// BatchResult 批处理结果
type BatchResult struct {
	BatchCounts
	// Documents 按 List 顺序排列，每个文档一项
	Documents []*DocumentResult
	// Failed 读写或提取失败的文档
	Failed []*DocumentResult
	// Skipped 因 ctx 取消而未处理的文档
	Skipped []string
	// Warnings 有翻译失败的文档数
	Warnings int
}

// Err 汇总失败文档
func (b *BatchResult) Err() error {
	if len(b.Failed) == 0 {
		return nil
	}
	err := b.Failed[0].Err
	if len(b.Failed) > 1 {
		err = errors.Wrapf(err, "%d documents failed, first", len(b.Failed))
	}
	return err
}

// ConvertCollection 并行转换存储中的全部文档
//
// 单个文档失败不影响其他文档；ctx 取消后剩余文档记入 Skipped，
// 已写回的文档不回滚，此时同时返回结果与 ctx.Err()。
func (c *Converter) ConvertCollection(ctx context.Context, store Store) (*BatchResult, error) {
	refs, err := store.List(ctx)
	if err != nil {
		return nil, wrapStorage(err, "", "list")
	}

	docs := make([]*DocumentResult, len(refs))
	g := new(errgroup.Group)
	g.SetLimit(c.opts.Workers)

	for i, ref := range refs {
		i, ref := i, ref
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			doc, err := c.ConvertDocument(ctx, store, ref)
			if err != nil {
				if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
					return nil
				}
				c.log.WithField("doc", ref).WithError(err).Error("document failed")
				doc = &DocumentResult{Ref: ref, Err: err}
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{}
	for i, doc := range docs {
		if doc == nil {
			res.Skipped = append(res.Skipped, refs[i])
			c.opts.Metrics.ObserveDocument(DocumentSkipped)
			continue
		}
		res.Documents = append(res.Documents, doc)
		if doc.Err != nil {
			res.Failed = append(res.Failed, doc)
			c.opts.Metrics.ObserveDocument(DocumentFailed)
			continue
		}
		if doc.Changed {
			c.opts.Metrics.ObserveDocument(DocumentChanged)
		} else {
			c.opts.Metrics.ObserveDocument(DocumentUnchanged)
		}
		res.Block += doc.Counts.Block
		res.Inline += doc.Counts.Inline
		if doc.Counts.Any() {
			res.FileCount++
		}
		if len(doc.Failures) > 0 {
			res.Warnings++
		}
	}

	c.log.WithField("files", res.FileCount).Info(Summary(res.BatchCounts, "en"))
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}
