package pdf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
)

// Search discovers PDF templates in a directory tree
type Search struct {
	validator *Validator
	debugMode bool
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64, debugMode bool) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
		debugMode: debugMode,
	}
}

// SearchDirectory lists PDF files below the requested directory whose names
// match the query. With FormsOnly set, files are parsed and only those with
// at least one fillable field are returned.
func (s *Search) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	files, absDirectory, err := s.walk(req.Directory, strings.ToLower(strings.TrimSpace(req.Query)), req.FormsOnly, 0)
	if err != nil {
		return nil, err
	}

	return &PDFSearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// FindPDFsInDirectoryLimited finds up to limit PDF files without parsing them
func (s *Search) FindPDFsInDirectoryLimited(directory string, limit int) ([]FileInfo, error) {
	files, _, err := s.walk(directory, "", false, limit)
	return files, err
}

func (s *Search) walk(directory, query string, formsOnly bool, limit int) ([]FileInfo, string, error) {
	if directory == "" {
		return nil, "", fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var files []FileInfo
	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // keep walking past unreadable entries
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if limit > 0 && len(files) >= limit {
			return filepath.SkipAll
		}

		if !isPDFFile(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}

		file := FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		}

		if formsOnly {
			count, err := countFields(path)
			if err != nil {
				if s.debugMode {
					log.Printf("Skipping %s: %v", path, err)
				}
				return nil
			}
			if count == 0 {
				return nil
			}
			file.FieldCount = count
		}

		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("error walking directory: %w", err)
	}

	return files, absDirectory, nil
}

func countFields(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	doc, err := acroform.Open(f)
	if err != nil {
		return 0, err
	}

	fields, err := doc.Fields()
	if err != nil {
		return 0, err
	}
	return len(fields), nil
}

// isPDFFile checks if a file has a PDF extension
func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// matchesQuery matches every word of the query against the words of the
// file name. query must already be lower case.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitIntoWords(name)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// splitIntoWords splits a string on common file name separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
