package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "from header",
			content: "From: alice@example.com\nSubject: hi\n\nbody",
			want:    "alice@example.com",
		},
		{
			name:    "portuguese label",
			content: "De: bruno@empresa.com.br\nAssunto: fatura\n\ncorpo",
			want:    "bruno@empresa.com.br",
		},
		{
			name:    "sender label",
			content: "Sender: ops@example.org\n\nbody",
			want:    "ops@example.org",
		},
		{
			name:    "submitted by label",
			content: "Submitted-by: form@site.io\n\nbody",
			want:    "form@site.io",
		},
		{
			name:    "case insensitive",
			content: "FROM: Carol@Example.COM\n\nbody",
			want:    "Carol@Example.COM",
		},
		{
			name:    "from beats de when both present",
			content: "De: segundo@example.com\nFrom: primeiro@example.com\n\nbody",
			want:    "primeiro@example.com",
		},
		{
			name:    "no label",
			content: "Olá equipe, gostaria de saber o status do meu pedido.",
			want:    "",
		},
		{
			name:    "label without address",
			content: "From: Alice (no address here)\n\nbody",
			want:    "",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sender(tt.content))
		})
	}
}
