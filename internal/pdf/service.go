package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/security"
)

// Service handles PDF form operations by orchestrating the form components
type Service struct {
	maxFileSize   int64
	validator     *Validator
	search        *Search
	forms         *Forms
	cache         *DirectoryCache
	pathValidator *security.PathValidator
}

// Option configures a Service
type Option func(*serviceOptions)

type serviceOptions struct {
	debugMode bool
	batch     acroform.ReplicatorOptions
}

// WithDebug enables verbose logging in the form components
func WithDebug(debug bool) Option {
	return func(o *serviceOptions) {
		o.debugMode = debug
	}
}

// WithReplicatorOptions sets the batch defaults used when a request leaves
// them unset
func WithReplicatorOptions(opts acroform.ReplicatorOptions) Option {
	return func(o *serviceOptions) {
		o.batch = opts
	}
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string, opts ...Option) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	o := serviceOptions{batch: acroform.DefaultReplicatorOptions()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize, o.debugMode),
		forms:         NewForms(maxFileSize, o.batch, o.debugMode),
		cache:         NewDirectoryCache(directoryCacheTTL),
		pathValidator: pathValidator,
	}, nil
}

// PDFFormInfo lists the fields of a PDF form
func (s *Service) PDFFormInfo(req PDFFormInfoRequest) (*PDFFormInfoResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.forms.Info(req)
}

// PDFFormFill fills one copy of a form
func (s *Service) PDFFormFill(req PDFFormFillRequest) (*PDFFormFillResult, error) {
	if err := s.validatePaths(req.Path, req.DataFile, req.OutputPath); err != nil {
		return nil, err
	}
	return s.forms.Fill(req)
}

// PDFFormBatchFill fills and merges one copy of a form per record
func (s *Service) PDFFormBatchFill(ctx context.Context, req PDFFormBatchFillRequest) (*PDFFormBatchFillResult, error) {
	if err := s.validatePaths(req.Path, req.RecordsFile, req.OutputPath); err != nil {
		return nil, err
	}
	return s.forms.BatchFill(ctx, req)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// PDFServerInfo returns server information, batch defaults and usage guidance
func (s *Service) PDFServerInfo(ctx context.Context, _ PDFServerInfoRequest, serverName, version,
	defaultDirectory string,
) (*PDFServerInfoResult, error) {
	validatedDir := defaultDirectory
	if err := s.pathValidator.ValidateDirectory(defaultDirectory); err != nil {
		validatedDir = s.pathValidator.GetConfiguredDirectory()
	}

	defaults := s.forms.Defaults()

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  validatedDir,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: s.listDirectory(ctx, validatedDir),
		UsageGuidance:     usageGuidance(s.maxFileSize, defaults),
		BatchDefaults:     defaults,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// BatchOptions resolves the replication settings a batch request would use
func (s *Service) BatchOptions(req PDFFormBatchFillRequest) acroform.ReplicatorOptions {
	return s.forms.Options(req)
}

// validatePaths checks the input template, an optional values file and the
// output path against the configured directory
func (s *Service) validatePaths(input, valuesFile, output string) error {
	if err := s.pathValidator.ValidatePath(input); err != nil {
		return fmt.Errorf("security validation failed: %w", err)
	}
	if valuesFile != "" {
		if err := s.pathValidator.ValidatePath(valuesFile); err != nil {
			return fmt.Errorf("security validation failed: %w", err)
		}
	}
	if err := s.pathValidator.ValidateOutputPath(output, input); err != nil {
		return fmt.Errorf("security validation failed: %w", err)
	}
	return nil
}
