package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/mcp-pdf-form-filler/internal/descriptions"
)

const (
	directoryListingLimit = 100
	directoryScanTimeout  = 5 * time.Second
	directoryCacheTTL     = 5 * time.Minute
)

// DirectoryCache provides TTL-based caching for directory listings
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached listing of path if it has not expired
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists || time.Since(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return entry.files, true
}

// Set stores a directory listing
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{files: files, lastUpdate: time.Now()}
}

// Clear removes expired entries
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for path, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > c.ttl {
			delete(c.entries, path)
		}
	}
}

// listDirectory returns up to directoryListingLimit PDFs in dir, from cache
// when possible. A slow or failing scan yields an empty listing.
func (s *Service) listDirectory(ctx context.Context, dir string) []FileInfo {
	if files, ok := s.cache.Get(dir); ok {
		return files
	}

	ctx, cancel := context.WithTimeout(ctx, directoryScanTimeout)
	defer cancel()

	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindPDFsInDirectoryLimited(dir, directoryListingLimit)
		if err != nil {
			files = nil
		}
		resultChan <- files
	}()

	select {
	case files := <-resultChan:
		if files == nil {
			files = []FileInfo{}
		}
		s.cache.Set(dir, files)
		return files
	case <-ctx.Done():
		return []FileInfo{}
	}
}

// availableTools describes the registered tools
func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "pdf_form_info",
			Description: descriptions.GetToolDescription("pdf_form_info"),
			Usage:       "Use this tool to list field names, types, current values and choices before filling.",
			Parameters:  "path (required): Full path to the PDF form",
		},
		{
			Name:        "pdf_form_fill",
			Description: descriptions.GetToolDescription("pdf_form_fill"),
			Usage:       "Use this tool to fill one copy of a form and save it to output_path.",
			Parameters: "path (required): PDF form, output_path (required): file to write, " +
				"data (optional): object of field values, data_file (optional): JSON/YAML file of field values",
		},
		{
			Name:        "pdf_form_batch_fill",
			Description: descriptions.GetToolDescription("pdf_form_batch_fill"),
			Usage:       "Use this tool to fill one copy per record and merge all copies into one PDF.",
			Parameters: "path (required): PDF form, output_path (required): file to write, " +
				"records (optional): array of objects, records_file (optional): JSON/YAML/CSV file, " +
				"double_sided (optional), splice_index (optional), legacy_splice (optional), workers (optional)",
		},
		{
			Name:        "pdf_validate_file",
			Description: descriptions.GetToolDescription("pdf_validate_file"),
			Usage:       "Use this tool to check if a file is a readable PDF and get its page count.",
			Parameters:  "path (required): Full path to the PDF file",
		},
		{
			Name:        "pdf_search_directory",
			Description: descriptions.GetToolDescription("pdf_search_directory"),
			Usage:       "Use this tool to find form templates by file name.",
			Parameters: "directory (optional): Directory to search (uses default if empty), " +
				"query (optional): words to match, forms_only (optional): only files with fields",
		},
		{
			Name:        "pdf_server_info",
			Description: descriptions.GetToolDescription("pdf_server_info"),
			Usage:       "Use this tool to get server information, batch defaults and directory contents.",
			Parameters:  "No parameters required",
		},
	}
}

func usageGuidance(maxFileSize int64, defaults BatchDefaults) string {
	return fmt.Sprintf(`PDF Form Filler Usage Guide:

1. FIND TEMPLATES:
   - Use 'pdf_search_directory' with forms_only=true to list fillable PDFs

2. INSPECT:
   - Use 'pdf_form_info' to get field names, types, values and choices
   - Use the reported names verbatim as data keys

3. FILL ONE COPY:
   - Use 'pdf_form_fill' with a data object
   - text: string; checkbox: true/false; radio: export name;
     combo: display value; list: array of display values

4. FILL MANY COPIES:
   - Use 'pdf_form_batch_fill' with one record per copy
   - Field names in the output get a per-copy suffix (0000, -0001, ...)
   - double_sided pads odd page counts with a blank page at splice_index

CURRENT BATCH DEFAULTS:
- double_sided: %t
- splice_index: %d
- workers: %d

IMPORTANT NOTES:
- The server can handle files up to %dMB
- An unknown choice value fails the fill and leaves no output file
- One bad record aborts the whole batch`,
		defaults.DoubleSided, defaults.SpliceIndex, defaults.Workers, maxFileSize/(1024*1024))
}
