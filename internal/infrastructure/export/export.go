// Package export renders comparison results into downloadable artifacts.
// JSON export is produced in-process and written to object storage; the
// remaining formats are delegated downstream and rejected here.
package export

import (
	"context"
	"fmt"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// Format is an export output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatPDF || f == FormatDOCX || f == FormatHTML
}

// Options selects what an export artifact contains.
type Options struct {
	IncludeSummary    bool     `json:"include_summary"`
	IncludeMetrics    bool     `json:"include_metrics"`
	IncludeHighlights bool     `json:"include_highlights"`
	Sections          []string `json:"sections,omitempty"`
}

// DefaultOptions includes everything.
func DefaultOptions() Options {
	return Options{IncludeSummary: true, IncludeMetrics: true, IncludeHighlights: true}
}

// Result describes a stored export artifact.
type Result struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

// Service is the export contract consumed by the session controller and the
// HTTP layer.
type Service interface {
	Export(ctx context.Context, cmp *domain.DocumentComparison, format Format, opts Options) (*Result, error)
}

// ArtifactStore is the object-storage port for finished artifacts,
// implemented over MinIO.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, key, contentType string, data []byte) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

// Publisher announces finished exports.  Nil disables events.
type Publisher interface {
	ExportCompleted(ctx context.Context, comparisonID common.ID, format, key string) error
}

// ErrUnsupportedFormat builds the standard error for formats this service
// does not render in-process.
func ErrUnsupportedFormat(f Format) error {
	return errors.New(errors.ErrCodeExportFormatUnsupported,
		fmt.Sprintf("export format %q is not supported", f))
}
