package manual

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

func TestProvider(t *testing.T) {
	_, err := NewProvider(&Config{})
	require.Error(t, err)

	p, err := NewProvider(&Config{CardNumber: "2203830201305241"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentModeManual, p.Mode())

	instr, err := p.Instruction(context.Background(), &domain.Order{ID: "1_1"})
	require.NoError(t, err)
	assert.Equal(t, "2203830201305241", instr.CardNumber)
	assert.Empty(t, instr.URL)

	assert.ErrorIs(t, p.VerifyNotification(domain.PaymentNotification{Sign: "x"}), domain.ErrInvalidSignature)
}
