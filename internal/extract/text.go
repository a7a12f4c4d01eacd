package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/mailmind/mailmind/internal/core"
)

// FileUpload is an uploaded file attached to a submission
type FileUpload struct {
	Name string
	Data []byte
}

// Input bundles the possible content sources of one submission. At most one
// is used; precedence is inline text, then JSON payload, then file upload.
type Input struct {
	Text string
	JSON []byte
	File *FileUpload
}

// jsonPayload is the accepted JSON submission shape
type jsonPayload struct {
	EmailContent string `json:"email_content"`
	Content      string `json:"content"`
}

// ExtractorConfig bounds file handling
type ExtractorConfig struct {
	MaxFileSizeMB int
	PDFMaxPages   int
	PDFMaxChars   int
}

// Extractor normalizes heterogeneous submission input into a single content
// string with an origin tag. Failures degrade to empty content with a tagged
// origin; they never propagate as errors.
type Extractor struct {
	logger *zap.Logger
	cfg    ExtractorConfig
}

// NewExtractor creates a new text extractor
func NewExtractor(logger *zap.Logger, cfg ExtractorConfig) *Extractor {
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = 10
	}
	if cfg.PDFMaxPages <= 0 {
		cfg.PDFMaxPages = 5
	}
	if cfg.PDFMaxChars <= 0 {
		cfg.PDFMaxChars = 2000
	}
	return &Extractor{logger: logger, cfg: cfg}
}

// Extract produces the submission content and its origin tag
func (e *Extractor) Extract(in Input) core.EmailContent {
	if in.Text != "" {
		return core.EmailContent{Body: in.Text, Origin: core.OriginText}
	}

	if len(in.JSON) > 0 {
		var payload jsonPayload
		if err := json.Unmarshal(in.JSON, &payload); err == nil {
			if payload.EmailContent != "" {
				return core.EmailContent{Body: payload.EmailContent, Origin: core.OriginJSON}
			}
			if payload.Content != "" {
				return core.EmailContent{Body: payload.Content, Origin: core.OriginJSON}
			}
		}
	}

	if in.File == nil || in.File.Name == "" {
		return core.EmailContent{Origin: core.OriginNone}
	}

	return e.extractFile(in.File)
}

// AssembleWebhook builds email content from discrete webhook fields
func AssembleWebhook(sender, subject, body string) core.EmailContent {
	return core.EmailContent{
		Body:   fmt.Sprintf("From: %s\nSubject: %s\n\n%s", sender, subject, body),
		Origin: core.OriginWebhook,
		Sender: sender,
	}
}

func (e *Extractor) extractFile(file *FileUpload) core.EmailContent {
	filename := strings.ToLower(file.Name)

	// Validate the extension before touching the payload
	if !strings.HasSuffix(filename, ".txt") && !strings.HasSuffix(filename, ".pdf") {
		e.logger.Warn("Unsupported file type", zap.String("filename", filename))
		return core.EmailContent{Origin: core.OriginUnsupported}
	}

	maxBytes := e.cfg.MaxFileSizeMB * 1024 * 1024
	if len(file.Data) > maxBytes {
		e.logger.Warn("Uploaded file too large",
			zap.String("filename", filename),
			zap.Int("size", len(file.Data)),
			zap.Int("max_size", maxBytes))
		return core.EmailContent{Origin: core.OriginFileTooLarge}
	}

	if strings.HasSuffix(filename, ".txt") {
		return core.EmailContent{Body: decodeText(file.Data), Origin: core.OriginTxtFile}
	}

	text, err := extractPDFText(file.Data, e.cfg.PDFMaxPages, e.cfg.PDFMaxChars)
	if err != nil {
		e.logger.Error("PDF extraction failed",
			zap.String("filename", filename),
			zap.Error(err))
		return core.EmailContent{Origin: core.OriginPDFError}
	}
	return core.EmailContent{Body: text, Origin: core.OriginPDF}
}

// decodeText decodes an uploaded text file. Valid UTF-8 passes through;
// anything else is treated as Windows-1252, the usual culprit for exported
// email text, so undecodable bytes never fail the upload.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		// Last resort: replace invalid sequences
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}
