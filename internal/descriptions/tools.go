package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Form Tools
	PDFFormInfoDescription = `List the fillable fields of a PDF form with their types, current values and choices.

**When to use:** Before filling a form, to learn the exact field names and which values each field accepts.

**Why it's useful:** Field names in PDF forms are rarely obvious. This tool reports every field once, in page order, with its type (text, checkbox, radio, combo, list), the value it currently holds and, for choice fields, the allowed display values.

**Examples:**
• Discover a template: "What fields does w9-template.pdf have?"
• Check choices: "Which states can I pick in the state combo of application.pdf?"
• Verify output: "Inspect filled-form.pdf to confirm the name field was written"

**Common workflows:**
1. Single fill: pdf_form_info → build data from field names → pdf_form_fill
2. Mail merge: pdf_form_info → build one record per recipient → pdf_form_batch_fill
3. Review: pdf_form_fill → pdf_form_info on the output → compare values

**Best practices:** Use the reported names verbatim as data keys. For radio fields use one of the listed choices, for combo and list fields use display values.`

	PDFFormFillDescription = `Fill the fields of a PDF form and write the result to a new file.

**When to use:** Produce one filled copy of a form from a set of field values.

**Why it's useful:** Values are validated against each field type before anything is written. Unknown choices fail loudly instead of producing a half-filled form, and viewers are told to regenerate field appearances.

**Value formats:**
• text: string or number
• checkbox: true/false, "yes"/"no", or {"value": true, "export": "Yes"} to choose the on-state name
• radio: the export name of the option to select
• combo: one display value
• list: an array of display values

**Examples:**
• "Fill application.pdf with name=Jane Doe and agree=true into out/jane.pdf"
• "Fill invoice-template.pdf using values from invoice.yaml"

**Best practices:** Run pdf_form_info first. Keys that match no field are reported as unmatched and otherwise ignored.`

	PDFFormBatchFillDescription = `Fill one copy of a PDF form per record and merge all copies into a single PDF.

**When to use:** Mail merge style jobs: certificates, letters, labels or any form that must be printed once per person or row.

**Why it's useful:** Every copy gets unique field names (name0000, name-0001, ...) so the values stay independent in the merged file. With double-sided printing enabled, a blank page is added to every copy with an odd page count so each copy starts on a front side.

**Parameters:**
• records: array of objects (same value formats as pdf_form_fill), or records_file with JSON, YAML or CSV
• double_sided: pad odd page counts with a blank page
• splice_index: where the blank page goes, negative counts from the end (default -1, before the last page; use the page count to append)
• workers: number of records filled in parallel

**Examples:**
• "Create certificates.pdf from certificate-template.pdf with one copy per attendee in attendees.csv"
• "Merge 50 filled copies of the 3-page enrolment form for duplex printing"

**Best practices:** A single invalid record aborts the whole batch and the error names the record index. Fix the record and run again.`

	// Utility Tools
	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before inspecting or filling a form, and to check a produced output file.

**Why it's useful:** Catches corrupted, empty or oversized files early and reports the page count.

**Examples:**
• "Validate template.pdf before filling it"
• "Check that merged.pdf is readable and has 12 pages"

**Best practices:** Always run this first in automated workflows.`

	PDFSearchDirectoryDescription = `Find PDF files in a directory, optionally only those containing fillable forms.

**When to use:** Locate form templates when you only know part of the file name.

**Why it's useful:** Matches every word of the query against the words of each file name and can skip files without fields.

**Examples:**
• "Find all tax forms" → query: "tax", forms_only: true
• "List PDFs in templates/"

**Best practices:** Use forms_only on large directories to get just the templates.`

	PDFServerInfoDescription = `Get server capabilities, batch defaults, and the PDF files in the configured directory.

**When to use:** At the start of a session, to learn which tools exist and where the templates live.

**Why it's useful:** Reports the size limit, the default double-sided and splice settings used by pdf_form_batch_fill, and a listing of available PDFs.

**Best practices:** Call once at the beginning of a workflow.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_form_info":        PDFFormInfoDescription,
	"pdf_form_fill":        PDFFormFillDescription,
	"pdf_form_batch_fill":  PDFFormBatchFillDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
