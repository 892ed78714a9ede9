package helpers

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsContextDone(t *testing.T) {
	require.True(t, IsContextDone(nil))
	ctx, cancel := context.WithCancel(context.Background())
	require.False(t, IsContextDone(ctx))
	cancel()
	require.True(t, IsContextDone(ctx))
}

func TestDistinct(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, Distinct([]string{"a", "", "b", "a", "c", "b"}))
	require.Equal(t, []string{}, Distinct(nil))
	require.Equal(t, "user@mail.ru", NormalizeEmail("  User@Mail.RU "))
}

func TestGetFileContentType(t *testing.T) {
	file := &multipart.FileHeader{Header: textproto.MIMEHeader{}}
	file.Header.Set("Content-Type", "application/pdf")
	require.Equal(t, "application/pdf", GetFileContentType(file, []byte("abc")))

	file.Header.Set("Content-Type", "application/octet-stream")
	require.Equal(t, "text/plain; charset=utf-8", GetFileContentType(file, []byte("просто текст")))
}
