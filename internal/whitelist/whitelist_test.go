package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	c := NewChecker([]string{"Parceiro.com", " banco.com.br "}, zap.NewNop())

	assert.True(t, c.IsTrusted("vendas@parceiro.com"))
	assert.True(t, c.IsTrusted("suporte@BANCO.COM.BR"))
	assert.False(t, c.IsTrusted("alguem@outro.com"))
	assert.False(t, c.IsTrusted("sem-arroba"))
	assert.False(t, c.IsTrusted("duplo@arroba@parceiro.com"))
	assert.False(t, c.IsTrusted(""))
}

func TestIsTrustedEmptyList(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())

	assert.False(t, c.IsTrusted("qualquer@parceiro.com"))
}
