package pdf

import "github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"

// FileInfo represents basic information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
	FieldCount   int    `json:"field_count,omitempty"`
}

// Request Types

// PDFFormInfoRequest represents a request to list the form fields of a PDF
type PDFFormInfoRequest struct {
	Path string `json:"path"`
}

// PDFFormFillRequest represents a request to fill one copy of a form.
// Values come from Data, from DataFile, or both (Data wins on conflicts).
type PDFFormFillRequest struct {
	Path       string          `json:"path"`
	OutputPath string          `json:"output_path"`
	Data       acroform.Record `json:"data,omitempty"`
	DataFile   string          `json:"data_file,omitempty"`
}

// PDFFormBatchFillRequest represents a request to fill one copy of a form per
// record and merge the copies. Nil batch settings fall back to the service
// defaults.
type PDFFormBatchFillRequest struct {
	Path         string            `json:"path"`
	OutputPath   string            `json:"output_path"`
	Records      []acroform.Record `json:"records,omitempty"`
	RecordsFile  string            `json:"records_file,omitempty"`
	DoubleSided  *bool             `json:"double_sided,omitempty"`
	SpliceIndex  *int              `json:"splice_index,omitempty"`
	LegacySplice *bool             `json:"legacy_splice,omitempty"`
	Workers      int               `json:"workers,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
	FormsOnly bool   `json:"forms_only,omitempty"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// PDFFormInfoResult lists the fields of a form in document order
type PDFFormInfoResult struct {
	Path            string                `json:"path" yaml:"path"`
	Pages           int                   `json:"pages" yaml:"pages"`
	NeedAppearances bool                  `json:"need_appearances" yaml:"need_appearances"`
	FieldCount      int                   `json:"field_count" yaml:"field_count"`
	Fields          []acroform.Descriptor `json:"fields" yaml:"fields"`
}

// PDFFormFillResult represents the result of a single fill
type PDFFormFillResult struct {
	Path       string   `json:"path"`
	OutputPath string   `json:"output_path"`
	Pages      int      `json:"pages"`
	Size       int64    `json:"size"`
	Filled     []string `json:"filled"`
	Unmatched  []string `json:"unmatched,omitempty"`
}

// PDFFormBatchFillResult represents the result of a batch fill
type PDFFormBatchFillResult struct {
	Path        string `json:"path"`
	OutputPath  string `json:"output_path"`
	Records     int    `json:"records"`
	Pages       int    `json:"pages"`
	Fields      int    `json:"fields"`
	Size        int64  `json:"size"`
	DoubleSided bool   `json:"double_sided"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string        `json:"server_name"`
	Version           string        `json:"version"`
	DefaultDirectory  string        `json:"default_directory"`
	MaxFileSize       int64         `json:"max_file_size"`
	AvailableTools    []ToolInfo    `json:"available_tools"`
	DirectoryContents []FileInfo    `json:"directory_contents"`
	UsageGuidance     string        `json:"usage_guidance"`
	BatchDefaults     BatchDefaults `json:"batch_defaults"`
}

// BatchDefaults reports the replication settings used when a batch request
// leaves them unset
type BatchDefaults struct {
	DoubleSided  bool `json:"double_sided"`
	SpliceIndex  int  `json:"splice_index"`
	LegacySplice bool `json:"legacy_splice"`
	Workers      int  `json:"workers"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
