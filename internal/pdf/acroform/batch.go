package acroform

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"

	"github.com/sourcegraph/conc/iter"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
)

// Letter size in points
const (
	blankPageWidth  = 8.5 * 72
	blankPageHeight = 11 * 72
)

// blankPage marks the position of the parity page in a copy's layout
const blankPage = 0

// ReplicatorOptions controls page parity and parallelism of a batch
type ReplicatorOptions struct {
	// DoubleSided pads every copy with an odd page count to an even one
	DoubleSided bool
	// SpliceIndex is where the blank page goes, sliced like
	// pages[:i] + blank + pages[i:]; negative values count from the end,
	// so -1 places it before the last page
	SpliceIndex int
	// LegacySplice keeps the old slicing that skips the pages after the
	// blank when SpliceIndex is -1 and the pages before it when it is 0
	LegacySplice bool
	// Workers is the number of records filled concurrently
	Workers int
}

// DefaultReplicatorOptions returns single-sided sequential options
func DefaultReplicatorOptions() ReplicatorOptions {
	return ReplicatorOptions{
		SpliceIndex: -1,
		Workers:     1,
	}
}

// Replicator fills one template copy per record and merges the copies
type Replicator struct {
	opts      ReplicatorOptions
	filler    *Filler
	debugMode bool
}

// NewReplicator creates a new batch replicator
func NewReplicator(opts ReplicatorOptions, debugMode bool) *Replicator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Replicator{
		opts:      opts,
		filler:    NewFiller(debugMode),
		debugMode: debugMode,
	}
}

// Suffix returns the field name suffix of record i: the negated index
// padded to four digits ("0000", "-0001", "-0002", ...)
func Suffix(i int) string {
	if i == 0 {
		return "0000"
	}
	return fmt.Sprintf("-%04d", i)
}

// Replicate parses a fresh copy of template for every record, fills it and
// merges all copies in record order into one document. The first failing
// record aborts the batch.
func (r *Replicator) Replicate(ctx context.Context, template []byte, records []Record) (*Document, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to replicate")
	}

	copies, err := r.fillAll(ctx, template, records)
	if err != nil {
		return nil, err
	}

	out, err := Parse(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	m, err := newMerger(out)
	if err != nil {
		return nil, err
	}

	for i, doc := range copies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		layout := r.layout(doc.PageCount())
		if err := m.add(doc, layout); err != nil {
			return nil, errors.NewRecordError(i, err)
		}

		if r.debugMode {
			log.Printf("Merged record %d: %d pages", i, len(layout))
		}
	}

	if err := m.finish(); err != nil {
		return nil, err
	}

	return out, nil
}

// fillAll fills every record on its own document. Results keep record order.
func (r *Replicator) fillAll(parent context.Context, template []byte, records []Record) ([]*Document, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	indices := make([]int, len(records))
	for i := range indices {
		indices[i] = i
	}
	failures := make([]error, len(records))

	mapper := iter.Mapper[int, *Document]{MaxGoroutines: r.opts.Workers}
	copies, err := mapper.MapErr(indices, func(i *int) (*Document, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := r.fillRecord(template, *i, records[*i])
		if err != nil {
			failures[*i] = errors.NewRecordError(*i, err)
			cancel()
			return nil, failures[*i]
		}
		return doc, nil
	})
	if err == nil {
		return copies, nil
	}

	if parentErr := parent.Err(); parentErr != nil {
		return nil, parentErr
	}
	for _, failure := range failures {
		if failure != nil {
			return nil, failure
		}
	}
	return nil, err
}

func (r *Replicator) fillRecord(template []byte, i int, record Record) (*Document, error) {
	doc, err := Parse(template)
	if err != nil {
		return nil, err
	}
	if _, err := r.filler.Fill(doc, record, Suffix(i)); err != nil {
		return nil, err
	}
	return doc, nil
}

// layout returns the 1-based page numbers of a copy in output order, with
// blankPage where the parity page goes
func (r *Replicator) layout(pageCount int) []int {
	pages := make([]int, pageCount)
	for i := range pages {
		pages[i] = i + 1
	}

	if !r.opts.DoubleSided || pageCount%2 == 0 {
		return pages
	}

	if r.opts.LegacySplice {
		return legacyLayout(pages, r.opts.SpliceIndex)
	}

	pos := r.opts.SpliceIndex
	if pos < 0 {
		pos += pageCount
	}
	pos = clamp(pos, 0, pageCount)

	result := make([]int, 0, pageCount+1)
	result = append(result, pages[:pos]...)
	result = append(result, blankPage)
	result = append(result, pages[pos:]...)
	return result
}

// legacyLayout slices like pages[:i] + blank + pages[i:] with negative i
// counting from the end, but skips the leading slice when i is 0 and the
// trailing slice when i is -1. The last page is lost in the -1 case.
func legacyLayout(pages []int, splice int) []int {
	pos := splice
	if pos < 0 {
		pos += len(pages)
	}
	pos = clamp(pos, 0, len(pages))

	var result []int
	if splice != 0 {
		result = append(result, pages[:pos]...)
	}
	result = append(result, blankPage)
	if splice != -1 {
		result = append(result, pages[pos:]...)
	}
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsRecordError reports whether err came from a single batch record and
// returns its index
func IsRecordError(err error) (int, bool) {
	var formErr *errors.FormError
	if stderrors.As(err, &formErr) && formErr.Type == errors.ErrorTypeRecordFailed {
		return formErr.Record, true
	}
	return 0, false
}
