package helpers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// NormalizeEmail адреса сравниваются без учета регистра и пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Distinct убирает повторы и пустые строки, порядок сохраняется
func Distinct(list []string) []string {
	seen := make(map[string]bool, len(list))
	result := make([]string, 0, len(list))
	for _, item := range list {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}

// GetFileContentType тип из заголовка части формы, если он не указан, определяется по содержимому
func GetFileContentType(file *multipart.FileHeader, body []byte) string {
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	return http.DetectContentType(body)
}
