package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mailmind/mailmind/internal/preprocess"
)

// extractPDFText pulls plain text out of a PDF page by page, bounded by a
// page ceiling and a character ceiling. Extraction stops as soon as the
// budget is reached instead of reading everything and trimming afterwards.
func extractPDFText(data []byte, maxPages, maxChars int) (_ string, err error) {
	// The pdf package panics on some malformed files; a broken upload must
	// degrade, not crash the pipeline.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var text bytes.Buffer
	for i := 1; i <= pages; i++ {
		// Stop early once most of the budget is filled; another page of
		// text adds nothing the model will see.
		if text.Len() > (maxChars*7)/10 {
			break
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document
			continue
		}
		text.WriteString(pageText)

		if text.Len() > maxChars {
			break
		}
	}

	result := text.String()
	if len(result) > maxChars {
		result = strings.ToValidUTF8(result[:maxChars], "")
	}
	return preprocess.NormalizeWhitespace(result), nil
}
