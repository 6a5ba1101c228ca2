package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-form-filler/internal/config"
	"github.com/a3tai/mcp-pdf-form-filler/internal/descriptions"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
	"github.com/a3tai/mcp-pdf-form-filler/internal/records"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_form_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_form_info")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF form"),
		),
	), s.handlePDFFormInfo)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_form_fill",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_form_fill")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF form"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Where to write the filled PDF"),
		),
		mcp.WithObject("data",
			mcp.Description("Field values keyed by field name"),
		),
		mcp.WithString("data_file",
			mcp.Description("JSON or YAML file with field values; data entries take precedence"),
		),
	), s.handlePDFFormFill)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_form_batch_fill",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_form_batch_fill")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF form"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Where to write the merged PDF"),
		),
		mcp.WithArray("records",
			mcp.Description("One object of field values per copy"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("records_file",
			mcp.Description("JSON, YAML or CSV file with one record per copy"),
		),
		mcp.WithBoolean("double_sided",
			mcp.Description("Pad copies with an odd page count with a blank page"),
		),
		mcp.WithNumber("splice_index",
			mcp.Description("Position of the blank page; negative values count from the end"),
		),
		mcp.WithBoolean("legacy_splice",
			mcp.Description("Use the trimming splice of earlier releases"),
		),
		mcp.WithNumber("workers",
			mcp.Description("Number of records filled in parallel"),
		),
	), s.handlePDFFormBatchFill)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Words to match against file names"),
		),
		mcp.WithBoolean("forms_only",
			mcp.Description("Only return PDFs that contain fillable fields"),
		),
	), s.handlePDFSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	), s.handlePDFServerInfo)
}

// Handler functions
func (s *Server) handlePDFFormInfo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFFormInfo(pdf.PDFFormInfoRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormInfoResult(result)), nil
}

func (s *Server) handlePDFFormFill(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	data, err := recordArg(args, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFFormFill(pdf.PDFFormFillRequest{
		Path:       path,
		OutputPath: output,
		Data:       data,
		DataFile:   stringArg(args, "data_file"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormFillResult(result)), nil
}

func (s *Server) handlePDFFormBatchFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	recs, err := recordsArg(args, "records")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFFormBatchFillRequest{
		Path:         path,
		OutputPath:   output,
		Records:      recs,
		RecordsFile:  stringArg(args, "records_file"),
		DoubleSided:  boolArg(args, "double_sided"),
		SpliceIndex:  intArg(args, "splice_index"),
		LegacySplice: boolArg(args, "legacy_splice"),
	}
	if workers := intArg(args, "workers"); workers != nil {
		req.Workers = *workers
	}

	result, err := s.pdfService.PDFFormBatchFill(ctx, req)
	if err != nil {
		if index, ok := acroform.IsRecordError(err); ok {
			return mcp.NewToolResultError(fmt.Sprintf("batch aborted at record %d: %v", index, err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormBatchFillResult(result)), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory
	if dir := stringArg(args, "directory"); dir != "" {
		directory = dir
	}

	req := pdf.PDFSearchDirectoryRequest{
		Directory: directory,
		Query:     stringArg(args, "query"),
	}
	if formsOnly := boolArg(args, "forms_only"); formsOnly != nil {
		req.FormsOnly = *formsOnly
	}

	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		responseText := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	return mcp.NewToolResultText(formatSearchDirectoryResult(result)), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFServerInfo(ctx, pdf.PDFServerInfoRequest{},
		s.config.ServerName, s.config.Version, s.config.PDFDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

// Argument helpers. Missing or mistyped optional arguments read as unset.

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) *bool {
	switch v := args[key].(type) {
	case bool:
		return &v
	case string:
		switch strings.ToLower(v) {
		case "true":
			b := true
			return &b
		case "false":
			b := false
			return &b
		}
	}
	return nil
}

func intArg(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case float64:
		i := int(v)
		return &i
	case int:
		return &v
	}
	return nil
}

// recordArg accepts an object or a JSON string holding one
func recordArg(args map[string]any, key string) (acroform.Record, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return acroform.Record(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		rec, err := records.ParseRecord([]byte(v), records.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("invalid %s: expected an object of field values", key)
	}
}

// recordsArg accepts an array of objects or a JSON string holding one
func recordsArg(args map[string]any, key string) ([]acroform.Record, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case []any:
		recs := make([]acroform.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid %s: item %d is not an object", key, i)
			}
			recs = append(recs, acroform.Record(m))
		}
		return recs, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		recs, err := records.Parse([]byte(v), records.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("invalid %s: expected an array of objects", key)
	}
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF form filler in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	sseServer := server.NewSSEServer(s.mcpServer)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting PDF form filler on %s", s.config.Address())
		errChan <- sseServer.Start(s.config.Address())
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
