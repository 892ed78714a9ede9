package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("robot@docflow.ru", "user@docflow.ru", "Голосование завершено", "Итог: принят")
	require.True(t, strings.HasPrefix(msg, "From: robot@docflow.ru\r\nTo: user@docflow.ru\r\n"))
	require.Contains(t, msg, "Subject: Docflow - Голосование завершено\r\n")
	require.Contains(t, msg, "charset=\"UTF-8\"")
	require.True(t, strings.HasSuffix(msg, "Итог: принят\r\n"))
}

func TestNotConfigured(t *testing.T) {
	require.NoError(t, Connect("", "", "", "", false))
	require.False(t, Instance.IsConfigured())
	require.Error(t, Instance.SendEMail("user@docflow.ru", "тема", "текст"))
}
