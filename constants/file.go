package constants

import "strings"

// Format tags assigned to documents by extension.
const (
	DOCX    = "DOCX"
	PDF     = "PDF"
	XLSX    = "XLSX"
	IMAGE   = "IMAGE"
	TEXT    = "TEXT"
	EMAIL   = "EMAIL"
	JSON    = "JSON"
	XML     = "XML"
	CSV     = "CSV"
	ARCHIVE = "ARCHIVE"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its format tag.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "docx":
		return DOCX
	case "pdf":
		return PDF
	case "xlsx":
		return XLSX
	case "png", "jpg", "jpeg":
		return IMAGE
	case "txt":
		return TEXT
	case "eml":
		return EMAIL
	case "json":
		return JSON
	case "xml":
		return XML
	case "csv":
		return CSV
	case "zip":
		return ARCHIVE
	default:
		return ""
	}
}
