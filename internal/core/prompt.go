package core

import (
	"fmt"
	"strings"
)

// DefaultCategories is the classification taxonomy used when none is configured
var DefaultCategories = []string{
	"Solicitação de Status",
	"Informação Geral",
	"Reclamação",
	"Elogio",
	"Spam",
	"Outro",
}

const promptFormat = `Você é um assistente de IA especializado em análise de e-mails para uma empresa financeira.
Sua tarefa é analisar o seguinte e-mail e fornecer:
1. Uma classificação da necessidade de atenção humana (SIM/NÃO).
2. Uma categoria para o e-mail (e.g., %s).
3. Um resumo conciso do e-mail.
4. Uma sugestão de resposta automática, se o e-mail não exigir atenção humana. Se exigir atenção humana, sugira uma ação para a equipe humana.

Formato da saída esperada (JSON):
{
    "atencao_humana": "SIM" | "NÃO",
    "categoria": "string",
    "resumo": "string",
    "sugestao_resposta_ou_acao": "string"
}

E-mail para análise:
---
%s
---`

// PromptBuilder renders email content plus the classification taxonomy into a
// single model instruction. Building is deterministic: the same content always
// yields the same prompt.
type PromptBuilder struct {
	categoryList string
}

// NewPromptBuilder creates a prompt builder for the given taxonomy.
// An empty taxonomy falls back to DefaultCategories.
func NewPromptBuilder(categories []string) *PromptBuilder {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	quoted := make([]string, len(categories))
	for i, c := range categories {
		quoted[i] = "'" + c + "'"
	}
	return &PromptBuilder{
		categoryList: strings.Join(quoted, ", "),
	}
}

// Build renders the instruction prompt for one email. The email content is
// embedded verbatim; any truncation happens upstream in extraction.
func (b *PromptBuilder) Build(emailContent string) string {
	return fmt.Sprintf(promptFormat, b.categoryList, emailContent)
}
