package pdfvalidation

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF deliverables
type PDFLimits struct {
	MaxFileSizeMB    int    // Maximum file size in MB
	MaxPages         int    // Maximum number of pages
	DocumentTypeName string // For error messages (e.g., "deliverable")
}

// DeliverableLimits bounds milestone deliverable uploads.
var DeliverableLimits = PDFLimits{
	MaxFileSizeMB:    25,
	MaxPages:         100,
	DocumentTypeName: "deliverable",
}

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ValidatePDFBytes validates PDF content bytes against the given limits.
// A malformed file is a non-error result with Valid=false; only I/O
// level failures return an error.
func ValidatePDFBytes(content []byte, limits PDFLimits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if result.FileSize > maxSize {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result, nil
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Error = "Invalid PDF file: missing PDF header"
		return result, nil
	}

	pageCount, err := getPDFPageCount(content)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
		return result, nil
	}

	result.PageCount = pageCount

	if pageCount > limits.MaxPages {
		result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for a %s",
			pageCount, limits.MaxPages, limits.DocumentTypeName)
		return result, nil
	}

	if pageCount == 0 {
		result.Error = "PDF has no pages"
		return result, nil
	}

	result.Valid = true
	return result, nil
}

// getPDFPageCount returns the number of pages in a PDF
func getPDFPageCount(content []byte) (int, error) {
	reader := bytes.NewReader(content)
	doc, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return 0, err
	}
	return doc.NumPage(), nil
}
