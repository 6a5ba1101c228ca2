package pdf

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
	"github.com/a3tai/mcp-pdf-form-filler/internal/records"
)

// Forms handles inspecting, filling and batch filling of PDF forms
type Forms struct {
	validator *Validator
	defaults  acroform.ReplicatorOptions
	debugMode bool
}

// NewForms creates a form handler. defaults apply to batch requests that
// leave replication settings unset.
func NewForms(maxFileSize int64, defaults acroform.ReplicatorOptions, debugMode bool) *Forms {
	return &Forms{
		validator: NewValidator(maxFileSize),
		defaults:  defaults,
		debugMode: debugMode,
	}
}

// Info lists the fields of a form with their current values and choices
func (f *Forms) Info(req PDFFormInfoRequest) (*PDFFormInfoResult, error) {
	template, err := f.readTemplate(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := acroform.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	fields, err := acroform.NewInspector(f.debugMode).Inspect(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect form: %w", err)
	}
	if fields == nil {
		fields = []acroform.Descriptor{}
	}

	return &PDFFormInfoResult{
		Path:            req.Path,
		Pages:           doc.PageCount(),
		NeedAppearances: doc.NeedAppearances(),
		FieldCount:      len(fields),
		Fields:          fields,
	}, nil
}

// Fill fills one copy of the form and writes it to the output path
func (f *Forms) Fill(req PDFFormFillRequest) (*PDFFormFillResult, error) {
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}

	data, err := mergeData(req)
	if err != nil {
		return nil, err
	}

	template, err := f.readTemplate(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := acroform.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	filled, err := acroform.NewFiller(f.debugMode).FillWithResult(doc, data, "")
	if err != nil {
		return nil, err
	}

	size, err := writeDocument(doc, req.OutputPath)
	if err != nil {
		return nil, err
	}

	if f.debugMode {
		log.Printf("Filled %d fields of %s into %s", len(filled.Filled), req.Path, req.OutputPath)
	}

	result := &PDFFormFillResult{
		Path:       req.Path,
		OutputPath: req.OutputPath,
		Pages:      doc.PageCount(),
		Size:       size,
		Filled:     filled.Filled,
		Unmatched:  filled.Unmatched,
	}
	if result.Filled == nil {
		result.Filled = []string{}
	}
	return result, nil
}

// BatchFill fills one copy per record, merges the copies and writes the
// merged document to the output path
func (f *Forms) BatchFill(ctx context.Context, req PDFFormBatchFillRequest) (*PDFFormBatchFillResult, error) {
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}

	recs := req.Records
	if req.RecordsFile != "" {
		loaded, err := records.LoadFile(req.RecordsFile)
		if err != nil {
			return nil, err
		}
		recs = append(append([]acroform.Record{}, recs...), loaded...)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records supplied")
	}

	template, err := f.readTemplate(req.Path)
	if err != nil {
		return nil, err
	}

	opts := f.Options(req)
	doc, err := acroform.NewReplicator(opts, f.debugMode).Replicate(ctx, template, recs)
	if err != nil {
		return nil, err
	}

	fields, err := doc.Fields()
	if err != nil {
		return nil, fmt.Errorf("failed to read merged fields: %w", err)
	}

	size, err := writeDocument(doc, req.OutputPath)
	if err != nil {
		return nil, err
	}

	if f.debugMode {
		log.Printf("Merged %d records of %s into %s (%d pages)",
			len(recs), req.Path, req.OutputPath, doc.PageCount())
	}

	return &PDFFormBatchFillResult{
		Path:        req.Path,
		OutputPath:  req.OutputPath,
		Records:     len(recs),
		Pages:       doc.PageCount(),
		Fields:      len(fields),
		Size:        size,
		DoubleSided: opts.DoubleSided,
	}, nil
}

// Options resolves the replication settings of a batch request against the
// configured defaults
func (f *Forms) Options(req PDFFormBatchFillRequest) acroform.ReplicatorOptions {
	opts := f.defaults
	if req.DoubleSided != nil {
		opts.DoubleSided = *req.DoubleSided
	}
	if req.SpliceIndex != nil {
		opts.SpliceIndex = *req.SpliceIndex
	}
	if req.LegacySplice != nil {
		opts.LegacySplice = *req.LegacySplice
	}
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return opts
}

// Defaults returns the configured replication settings
func (f *Forms) Defaults() BatchDefaults {
	return BatchDefaults{
		DoubleSided:  f.defaults.DoubleSided,
		SpliceIndex:  f.defaults.SpliceIndex,
		LegacySplice: f.defaults.LegacySplice,
		Workers:      f.defaults.Workers,
	}
}

func (f *Forms) readTemplate(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := f.validator.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// mergeData combines the data file with inline data; inline values win
func mergeData(req PDFFormFillRequest) (acroform.Record, error) {
	data := acroform.Record{}

	if req.DataFile != "" {
		loaded, err := records.LoadRecordFile(req.DataFile)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			data[k] = v
		}
	}

	for k, v := range req.Data {
		data[k] = v
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no field values supplied")
	}
	return data, nil
}

const outputFilePerm = 0o644

// writeDocument writes doc next to path and renames it into place, so a
// failed write never leaves a truncated output behind
func writeDocument(doc *acroform.Document, path string) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".form-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(outputFilePerm); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := doc.Write(tmp); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to write PDF: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to move output into place: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("cannot access output file: %w", err)
	}
	return info.Size(), nil
}
