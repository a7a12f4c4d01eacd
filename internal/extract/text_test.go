package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

func newTestExtractor() *Extractor {
	return NewExtractor(zap.NewNop(), ExtractorConfig{MaxFileSizeMB: 1})
}

func TestExtractInlineText(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{Text: "olá equipe"})

	assert.Equal(t, "olá equipe", content.Body)
	assert.Equal(t, core.OriginText, content.Origin)
}

func TestExtractTextBeatsJSONAndFile(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{
		Text: "inline",
		JSON: []byte(`{"email_content":"do json"}`),
		File: &FileUpload{Name: "mail.txt", Data: []byte("do arquivo")},
	})

	assert.Equal(t, "inline", content.Body)
	assert.Equal(t, core.OriginText, content.Origin)
}

func TestExtractJSONPayload(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		json string
		want string
	}{
		{"email_content field", `{"email_content":"primeiro"}`, "primeiro"},
		{"content field", `{"content":"segundo"}`, "segundo"},
		{"email_content beats content", `{"email_content":"primeiro","content":"segundo"}`, "primeiro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := e.Extract(Input{JSON: []byte(tt.json)})
			assert.Equal(t, tt.want, content.Body)
			assert.Equal(t, core.OriginJSON, content.Origin)
		})
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{JSON: []byte(`{"email_content":`)})

	assert.Empty(t, content.Body)
	assert.Equal(t, core.OriginNone, content.Origin)
}

func TestExtractEmptyInput(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{})

	assert.Empty(t, content.Body)
	assert.Equal(t, core.OriginNone, content.Origin)
}

func TestExtractTxtUpload(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{File: &FileUpload{Name: "Email.TXT", Data: []byte("corpo do e-mail")}})

	assert.Equal(t, "corpo do e-mail", content.Body)
	assert.Equal(t, core.OriginTxtFile, content.Origin)
}

func TestExtractTxtUploadWindows1252(t *testing.T) {
	e := newTestExtractor()

	// "ação" encoded as Windows-1252
	data := []byte{'a', 0xE7, 0xE3, 'o'}
	content := e.Extract(Input{File: &FileUpload{Name: "mail.txt", Data: data}})

	assert.Equal(t, "ação", content.Body)
	assert.Equal(t, core.OriginTxtFile, content.Origin)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{File: &FileUpload{Name: "mail.docx", Data: []byte("conteúdo")}})

	assert.Empty(t, content.Body)
	assert.Equal(t, core.OriginUnsupported, content.Origin)
}

func TestExtractUnsupportedCheckedBeforeSize(t *testing.T) {
	e := newTestExtractor()

	// An oversized file with a bad extension reports the extension problem.
	big := []byte(strings.Repeat("x", 2*1024*1024))
	content := e.Extract(Input{File: &FileUpload{Name: "mail.docx", Data: big}})

	assert.Equal(t, core.OriginUnsupported, content.Origin)
}

func TestExtractFileTooLarge(t *testing.T) {
	e := newTestExtractor()

	big := []byte(strings.Repeat("x", 2*1024*1024))
	content := e.Extract(Input{File: &FileUpload{Name: "mail.txt", Data: big}})

	assert.Empty(t, content.Body)
	assert.Equal(t, core.OriginFileTooLarge, content.Origin)
}

func TestExtractCorruptPDF(t *testing.T) {
	e := newTestExtractor()

	content := e.Extract(Input{File: &FileUpload{Name: "mail.pdf", Data: []byte("not a pdf at all")}})

	assert.Empty(t, content.Body)
	assert.Equal(t, core.OriginPDFError, content.Origin)
}

func TestAssembleWebhook(t *testing.T) {
	content := AssembleWebhook("alice@example.com", "Pedido 123", "Qual o status?")

	assert.Equal(t, "From: alice@example.com\nSubject: Pedido 123\n\nQual o status?", content.Body)
	assert.Equal(t, core.OriginWebhook, content.Origin)
	assert.Equal(t, "alice@example.com", content.Sender)
}
