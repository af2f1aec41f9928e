package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ReportHash - SHA256 заголовка и номеров карт в порядке обхода.
// Два запуска по неизменной вики дают одинаковый хеш.
// Формула: SHA256(title|id1|id2|...)
func ReportHash(title string, cardIDs []string) string {
	content := title + "|" + strings.Join(cardIDs, "|")

	hash := sha256.Sum256([]byte(content))

	return fmt.Sprintf("%x", hash)
}

// VerifyReportHash проверяет соответствие хеша
func VerifyReportHash(expectedHash, title string, cardIDs []string) bool {
	return ReportHash(title, cardIDs) == expectedHash
}
