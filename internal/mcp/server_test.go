package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-form-filler/internal/config"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/pdftest"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	for name, data := range map[string][]byte{
		"sample.pdf": pdftest.SampleForm(1),
		"letter.pdf": pdftest.TextForm(3, "name"),
		"broken.pdf": make([]byte, 1024),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	cfg := &config.Config{
		Mode:         config.ModeStdio,
		PDFDirectory: dir,
		Version:      "1.0.0",
		ServerName:   "test-server",
		LogLevel:     "info",
		MaxFileSize:  1024 * 1024,
		SpliceIndex:  -1,
		Workers:      1,
	}
	service, err := pdf.NewService(cfg.MaxFileSize, dir, pdf.WithReplicatorOptions(cfg.ReplicatorOptions()))
	require.NoError(t, err)

	server, err := NewServer(cfg, service)
	require.NoError(t, err)
	return server, dir
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}

func TestNewServer(t *testing.T) {
	service, err := pdf.NewService(1024, t.TempDir())
	require.NoError(t, err)

	_, err = NewServer(nil, service)
	assert.Error(t, err)

	_, err = NewServer(config.DefaultConfig(), nil)
	assert.Error(t, err)

	server, err := NewServer(config.DefaultConfig(), service)
	require.NoError(t, err)
	assert.NotNil(t, server.mcpServer)
}

func TestServer_HandlePDFFormInfo(t *testing.T) {
	server, dir := newTestServer(t)

	result, err := server.handlePDFFormInfo(context.Background(), callRequest(map[string]interface{}{
		"path": filepath.Join(dir, "sample.pdf"),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Fields: 5")
	assert.Contains(t, text, "x (combo)")
	assert.Contains(t, text, "Choices: One, Two, Three")
	assert.Contains(t, text, "Choices: A, B, C")
}

func TestServer_HandlePDFFormInfo_MissingPath(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handlePDFFormInfo(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err, "tool errors are results, not protocol errors")
	assert.True(t, result.IsError)
}

func TestServer_HandlePDFFormFill(t *testing.T) {
	server, dir := newTestServer(t)
	output := filepath.Join(dir, "filled.pdf")

	result, err := server.handlePDFFormFill(context.Background(), callRequest(map[string]interface{}{
		"path":        filepath.Join(dir, "sample.pdf"),
		"output_path": output,
		"data": map[string]interface{}{
			"n":     "Jane",
			"c":     true,
			"l":     []interface{}{"Two"},
			"extra": 1,
		},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Fields filled: 3")
	assert.Contains(t, text, "Unmatched keys (ignored): extra")

	info, err := server.pdfService.PDFFormInfo(pdf.PDFFormInfoRequest{Path: output})
	require.NoError(t, err)
	for _, f := range info.Fields {
		switch f.Name {
		case "n":
			assert.Equal(t, "Jane", f.Value)
		case "l":
			assert.Equal(t, []string{"Two"}, f.Value)
		}
	}
}

func TestServer_HandlePDFFormFill_DataAsJSONString(t *testing.T) {
	server, dir := newTestServer(t)

	result, err := server.handlePDFFormFill(context.Background(), callRequest(map[string]interface{}{
		"path":        filepath.Join(dir, "sample.pdf"),
		"output_path": filepath.Join(dir, "filled.pdf"),
		"data":        `{"n": "Jane", "r": "C"}`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	assert.Contains(t, extractTextFromResult(result), "Fields filled: 2")
}

func TestServer_HandlePDFFormFill_Errors(t *testing.T) {
	server, dir := newTestServer(t)
	sample := filepath.Join(dir, "sample.pdf")

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "missing output",
			args: map[string]interface{}{"path": sample, "data": map[string]interface{}{"n": "x"}},
			want: "output_path",
		},
		{
			name: "data of wrong shape",
			args: map[string]interface{}{"path": sample, "output_path": filepath.Join(dir, "o.pdf"), "data": []interface{}{1}},
			want: "invalid data",
		},
		{
			name: "unknown combo value",
			args: map[string]interface{}{
				"path": sample, "output_path": filepath.Join(dir, "o.pdf"),
				"data": map[string]interface{}{"x": "Nine"},
			},
			want: "Nine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePDFFormFill(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, extractTextFromResult(result), tt.want)
		})
	}
}

func TestServer_HandlePDFFormBatchFill(t *testing.T) {
	server, dir := newTestServer(t)
	output := filepath.Join(dir, "merged.pdf")

	result, err := server.handlePDFFormBatchFill(context.Background(), callRequest(map[string]interface{}{
		"path":        filepath.Join(dir, "letter.pdf"),
		"output_path": output,
		"records": []interface{}{
			map[string]interface{}{"name": "Ada"},
			map[string]interface{}{"name": "Grace"},
			map[string]interface{}{"name": "Linus"},
		},
		"double_sided": true,
		"splice_index": float64(0),
		"workers":      float64(2),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Merged 3 filled copies")
	assert.Contains(t, text, "12 pages")
	assert.Contains(t, text, "Double-sided")
	assert.Contains(t, text, "0000, -0001")
}

func TestServer_HandlePDFFormBatchFill_RecordFailure(t *testing.T) {
	server, dir := newTestServer(t)

	result, err := server.handlePDFFormBatchFill(context.Background(), callRequest(map[string]interface{}{
		"path":        filepath.Join(dir, "sample.pdf"),
		"output_path": filepath.Join(dir, "merged.pdf"),
		"records": []interface{}{
			map[string]interface{}{"x": "One"},
			map[string]interface{}{"x": "Nine"},
		},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "batch aborted at record 1")
}

func TestServer_HandlePDFValidateFile(t *testing.T) {
	server, dir := newTestServer(t)

	tests := []struct {
		file string
		want string
	}{
		{file: "letter.pdf", want: "is valid and readable (3 pages)"},
		{file: "broken.pdf", want: "PDF validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{
				"path": filepath.Join(dir, tt.file),
			}))
			require.NoError(t, err)
			assert.Contains(t, extractTextFromResult(result), tt.want)
		})
	}
}

func TestServer_HandlePDFSearchDirectory(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handlePDFSearchDirectory(context.Background(), callRequest(map[string]interface{}{
		"forms_only": true,
	}))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Found 2 PDF file(s)")
	assert.Contains(t, text, "sample.pdf")
	assert.NotContains(t, text, "broken.pdf")

	result, err = server.handlePDFSearchDirectory(context.Background(), callRequest(map[string]interface{}{
		"query": "invoice",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "No PDF files found")
}

func TestServer_HandlePDFServerInfo(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handlePDFServerInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "test-server v1.0.0")
	assert.Contains(t, text, "pdf_form_batch_fill")
	assert.Contains(t, text, "3 PDF files found")
}

func TestArgumentHelpers(t *testing.T) {
	args := map[string]any{
		"s":      "text",
		"b":      true,
		"bs":     "FALSE",
		"n":      float64(-1),
		"bad":    []any{"x"},
		"recs":   []any{map[string]any{"a": "1"}},
		"badrec": []any{"x"},
	}

	assert.Equal(t, "text", stringArg(args, "s"))
	assert.Equal(t, "", stringArg(args, "missing"))

	require.NotNil(t, boolArg(args, "b"))
	assert.True(t, *boolArg(args, "b"))
	require.NotNil(t, boolArg(args, "bs"))
	assert.False(t, *boolArg(args, "bs"))
	assert.Nil(t, boolArg(args, "missing"))

	require.NotNil(t, intArg(args, "n"))
	assert.Equal(t, -1, *intArg(args, "n"))
	assert.Nil(t, intArg(args, "s"))

	recs, err := recordsArg(args, "recs")
	require.NoError(t, err)
	assert.Equal(t, []acroform.Record{{"a": "1"}}, recs)

	_, err = recordsArg(args, "badrec")
	assert.Error(t, err)

	_, err = recordArg(args, "bad")
	assert.Error(t, err)

	rec, err := recordArg(args, "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
