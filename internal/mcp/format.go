package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
)

func formatFormInfoResult(result *pdf.PDFFormInfoResult) string {
	text := fmt.Sprintf("PDF form: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Fields: %d\n", result.FieldCount)

	if result.FieldCount == 0 {
		text += "\nThis PDF has no fillable fields.\n"
		return text
	}

	text += "\n"
	for i, field := range result.Fields {
		text += fmt.Sprintf("%d. %s (%s)\n", i+1, field.Name, field.Type)
		if field.Value != nil {
			text += fmt.Sprintf("   Value: %s\n", formatValue(field.Value))
		}
		if len(field.Choices) > 0 {
			text += fmt.Sprintf("   Choices: %s\n", strings.Join(field.Choices, ", "))
		}
	}

	return text
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

func formatFormFillResult(result *pdf.PDFFormFillResult) string {
	text := fmt.Sprintf("Filled %s\n", result.Path)
	text += fmt.Sprintf("Output: %s (%d pages, %d bytes)\n", result.OutputPath, result.Pages, result.Size)
	text += fmt.Sprintf("Fields filled: %d\n", len(result.Filled))
	if len(result.Filled) > 0 {
		text += "  " + strings.Join(result.Filled, ", ") + "\n"
	}
	if len(result.Unmatched) > 0 {
		text += fmt.Sprintf("Unmatched keys (ignored): %s\n", strings.Join(result.Unmatched, ", "))
	}
	return text
}

func formatFormBatchFillResult(result *pdf.PDFFormBatchFillResult) string {
	text := fmt.Sprintf("Merged %d filled copies of %s\n", result.Records, result.Path)
	text += fmt.Sprintf("Output: %s (%d pages, %d bytes)\n", result.OutputPath, result.Pages, result.Size)
	text += fmt.Sprintf("Fields in output: %d\n", result.Fields)
	if result.DoubleSided {
		text += "Double-sided: copies padded to an even page count\n"
	}
	text += fmt.Sprintf("Field names carry per-copy suffixes: %s, %s, ...\n", acroform.Suffix(0), acroform.Suffix(1))
	return text
}

func formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		if file.FieldCount > 0 {
			text += fmt.Sprintf("   Fields: %d\n", file.FieldCount)
		}
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func formatServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}
