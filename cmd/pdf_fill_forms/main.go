package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-pdf-form-filler/internal/config"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
	"github.com/a3tai/mcp-pdf-form-filler/internal/prompt"
)

const usage = `PDF Fill Forms - inspect and fill PDF AcroForms

USAGE:
  pdf_fill_forms info  <file.pdf> [--format text|json|yaml]
  pdf_fill_forms fill  <file.pdf> -o <out.pdf> [--data values.json] [--set name=value]... [--interactive]
  pdf_fill_forms batch <file.pdf> -o <out.pdf> --records records.csv [--double-sided] [--splice N] [--legacy-splice] [--workers N]

Values files may be JSON, YAML or CSV. A field given several times with --set
receives a list, for list boxes with multiple selection.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], out)
	case "fill":
		return runFill(ctx, args[1:], out)
	case "batch":
		return runBatch(ctx, args[1:], out)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

// newService builds a service that may touch any file the user can, since the
// command line has no sandbox directory of its own
func newService(batch acroform.ReplicatorOptions) (*pdf.Service, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root := filepath.VolumeName(cwd) + string(filepath.Separator)

	return pdf.NewService(config.DefaultMaxFileSize, root, pdf.WithReplicatorOptions(batch))
}

func parseArgs(fs *pflag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: exactly one PDF file required", fs.Name())
	}
	return absPath(fs.Arg(0))
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}

func runInfo(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
	format := fs.String("format", "text", "Output format: text, json, yaml")

	path, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	service, err := newService(acroform.DefaultReplicatorOptions())
	if err != nil {
		return err
	}

	result, err := service.PDFFormInfo(pdf.PDFFormInfoRequest{Path: path})
	if err != nil {
		return err
	}

	return writeInfo(out, result, *format)
}

func writeInfo(out io.Writer, result *pdf.PDFFormInfoResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	case "text":
		fmt.Fprintf(out, "%s: %d pages, %d fields\n", result.Path, result.Pages, result.FieldCount)
		for _, field := range result.Fields {
			fmt.Fprintf(out, "  %-30s %-9s", field.Name, field.Type)
			if field.Value != nil {
				fmt.Fprintf(out, " = %v", field.Value)
			}
			if len(field.Choices) > 0 {
				fmt.Fprintf(out, "  [%s]", strings.Join(field.Choices, " | "))
			}
			fmt.Fprintln(out)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func runFill(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("fill", pflag.ContinueOnError)
	output := fs.StringP("output", "o", "", "Output PDF path")
	dataFile := fs.String("data", "", "JSON, YAML or CSV file with field values")
	sets := fs.StringArray("set", nil, "Field value as name=value (repeatable)")
	interactive := fs.BoolP("interactive", "i", false, "Prompt for every field")

	path, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		return errors.New("fill: --output is required")
	}

	data, err := parseSet(*sets)
	if err != nil {
		return err
	}

	service, err := newService(acroform.DefaultReplicatorOptions())
	if err != nil {
		return err
	}

	if *interactive {
		info, err := service.PDFFormInfo(pdf.PDFFormInfoRequest{Path: path})
		if err != nil {
			return err
		}
		answers, err := prompt.NewCollector(prompt.NewSurveyDriver()).Collect(ctx, info.Fields)
		if err != nil {
			return err
		}
		for name, value := range answers {
			if _, ok := data[name]; !ok {
				data[name] = value
			}
		}
	}

	req := pdf.PDFFormFillRequest{Path: path, Data: data}
	if req.OutputPath, err = absPath(*output); err != nil {
		return err
	}
	if req.DataFile, err = absPath(*dataFile); err != nil {
		return err
	}

	result, err := service.PDFFormFill(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s (%d pages), filled %d fields\n", result.OutputPath, result.Pages, len(result.Filled))
	if len(result.Unmatched) > 0 {
		fmt.Fprintf(out, "Ignored keys: %s\n", strings.Join(result.Unmatched, ", "))
	}
	return nil
}

func runBatch(ctx context.Context, args []string, out io.Writer) error {
	defaults := acroform.DefaultReplicatorOptions()

	fs := pflag.NewFlagSet("batch", pflag.ContinueOnError)
	output := fs.StringP("output", "o", "", "Output PDF path")
	recordsFile := fs.String("records", "", "JSON, YAML or CSV file with one record per copy")
	doubleSided := fs.Bool("double-sided", defaults.DoubleSided, "Pad every copy to an even page count")
	splice := fs.Int("splice", defaults.SpliceIndex, "Page index where the padding page goes, sliced like pages[:i] + blank + pages[i:]")
	legacy := fs.Bool("legacy-splice", defaults.LegacySplice, "Use the page-dropping splice layout")
	workers := fs.Int("workers", defaults.Workers, "Number of copies filled in parallel")

	path, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		return errors.New("batch: --output is required")
	}
	if *recordsFile == "" {
		return errors.New("batch: --records is required")
	}

	service, err := newService(acroform.ReplicatorOptions{
		DoubleSided:  *doubleSided,
		SpliceIndex:  *splice,
		LegacySplice: *legacy,
		Workers:      *workers,
	})
	if err != nil {
		return err
	}

	req := pdf.PDFFormBatchFillRequest{Path: path}
	if req.OutputPath, err = absPath(*output); err != nil {
		return err
	}
	if req.RecordsFile, err = absPath(*recordsFile); err != nil {
		return err
	}

	result, err := service.PDFFormBatchFill(ctx, req)
	if err != nil {
		if i, ok := acroform.IsRecordError(err); ok {
			return fmt.Errorf("record %d: %w", i, err)
		}
		return err
	}

	fmt.Fprintf(out, "Wrote %s: %d copies, %d pages, %d fields\n",
		result.OutputPath, result.Records, result.Pages, result.Fields)
	return nil
}

// parseSet turns name=value pairs into a record. Repeated names collect their
// values into a list in the order given.
func parseSet(pairs []string) (acroform.Record, error) {
	record := acroform.Record{}
	lists := map[string][]string{}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		lists[name] = append(lists[name], value)
	}

	for name, values := range lists {
		if len(values) == 1 {
			record[name] = values[0]
		} else {
			record[name] = values
		}
	}
	return record, nil
}
