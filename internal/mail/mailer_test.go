package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPayloadHeaders(t *testing.T) {
	payload := string(buildPayload("noreply@gigledger.app", Message{
		To: "maria@example.com", Subject: "Oi", Body: "corpo",
	}))
	require.True(t, strings.HasPrefix(payload, "From: noreply@gigledger.app\r\n"))
	require.Contains(t, payload, "To: maria@example.com\r\n")
	require.Contains(t, payload, "Subject: Oi\r\n")
	require.True(t, strings.HasSuffix(payload, "\r\ncorpo"))
}

func TestWelcomeMessage(t *testing.T) {
	msg := WelcomeMessage("maria@example.com", "Maria")
	require.Equal(t, "maria@example.com", msg.To)
	require.Contains(t, msg.Body, "Maria")
	require.Contains(t, msg.Subject, "Bem-vindo")
}

func TestWeeklySummaryMessageFormatsBRL(t *testing.T) {
	msg := WeeklySummaryMessage("maria@example.com", WeeklySummaryData{
		Name: "Maria", TotalRevenue: 1234.5, TotalExpenses: 234.5, NetProfit: 1000,
	})
	require.Contains(t, msg.Body, "R$ 1.234,50")
	require.Contains(t, msg.Body, "R$ 1.000,00")
}
