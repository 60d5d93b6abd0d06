package services

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bankportal/portal-backend/shared"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// extractionErrorPrefix is the in-band sentinel prepended to extraction
// failures. Extraction never returns a Go error: downstream consumers store
// and display the sentinel text as document content.
const extractionErrorPrefix = "Error reading PDF content: "

// DocumentExtractor turns an uploaded PDF into its concatenated page text.
// Fragments within a page are joined with a single space in the order the
// format reports them; every page is terminated with a newline. There is no
// layout reconstruction and no normalization beyond what the parser emits.
type DocumentExtractor struct {
	metrics *shared.ServiceMetrics
}

var (
	defaultExtractor     *DocumentExtractor
	defaultExtractorOnce sync.Once
)

// DefaultExtractor returns the shared process-wide extractor. The first
// caller performs initialization and publishes the handle; concurrent first
// callers wait on the same in-flight initialization.
func DefaultExtractor() *DocumentExtractor {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = NewDocumentExtractor(shared.NewServiceMetrics("DocumentExtractor"))
	})
	return defaultExtractor
}

// NewDocumentExtractor creates an extractor. metrics may be nil.
func NewDocumentExtractor(metrics *shared.ServiceMetrics) *DocumentExtractor {
	return &DocumentExtractor{metrics: metrics}
}

// Metrics exposes the extractor's counters for registry wiring.
func (e *DocumentExtractor) Metrics() *shared.ServiceMetrics {
	return e.metrics
}

// ExtractText extracts the full text of a PDF already confirmed to have
// MIME type application/pdf. Pages are processed strictly in ascending
// order, one at a time. Any failure, including parser panics on malformed
// input, is converted into the sentinel string rather than an error.
func (e *DocumentExtractor) ExtractText(name string, data []byte) string {
	start := time.Now()
	text, err := e.extract(data)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordRequest(false, time.Since(start))
		}
		logrus.WithFields(logrus.Fields{
			"service_name": "DocumentExtractor",
			"document":     name,
			"error":        err,
		}).Warn("PDF extraction failed")
		return extractionErrorPrefix + err.Error()
	}

	if e.metrics != nil {
		e.metrics.RecordRequest(true, time.Since(start))
	}
	logrus.WithFields(logrus.Fields{
		"service_name": "DocumentExtractor",
		"document":     name,
		"chars":        len(text),
	}).Debug("PDF extraction completed")
	return text
}

// IsExtractionError reports whether stored document content is the
// extraction failure sentinel rather than real text.
func IsExtractionError(content string) bool {
	return strings.HasPrefix(content, extractionErrorPrefix)
}

func (e *DocumentExtractor) extract(data []byte) (text string, err error) {
	// The parser panics on some malformed files; keep that inside the
	// extraction boundary.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([][]string, 0, reader.NumPage())
	for pageNumber := 1; pageNumber <= reader.NumPage(); pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}

		content := page.Content()
		fragments := make([]string, 0, len(content.Text))
		for _, fragment := range content.Text {
			fragments = append(fragments, fragment.S)
		}
		pages = append(pages, fragments)
	}

	return buildDocumentText(pages), nil
}

// buildDocumentText joins per-page fragment lists into the final document
// string: fragments joined by one space, each page terminated by a newline.
func buildDocumentText(pages [][]string) string {
	var builder strings.Builder
	for _, fragments := range pages {
		builder.WriteString(strings.Join(fragments, " "))
		builder.WriteString("\n")
	}
	return builder.String()
}
