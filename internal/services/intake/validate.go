package intake

import (
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxUploadSize is the largest accepted financial document (10 MiB)
const MaxUploadSize int64 = 10 * 1024 * 1024

var (
	ErrUnsupportedType = errors.New("Please upload a PDF, Excel, or CSV file.")
	ErrFileTooLarge    = errors.New("File size must be less than 10MB.")
)

// allowedTypes maps accepted MIME types to a document kind
var allowedTypes = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "excel",
	"application/vnd.ms-excel": "excel",
	"text/csv":                 "csv",
}

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".csv":  "text/csv",
}

// Upload describes a document the client intends to send
type Upload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Result is the outcome of ValidateUpload
type Result struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Kind          string `json:"kind,omitempty"`
	Size          int64  `json:"size"`
	FormattedSize string `json:"formattedSize"`
}

// ValidateUpload checks the document type and size. When contentType is
// empty or generic the type is inferred from the file extension.
func ValidateUpload(name, contentType string, size int64) (*Result, error) {
	contentType = normalizeType(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = extensionTypes[strings.ToLower(filepath.Ext(name))]
	}

	kind, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	if size < 0 || size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	return &Result{
		Name:          name,
		Type:          contentType,
		Kind:          kind,
		Size:          size,
		FormattedSize: FormatFileSize(size),
	}, nil
}

func normalizeType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// FormatFileSize renders bytes with a binary unit and at most two decimals,
// e.g. 1536 -> "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	value = math.Round(value*100) / 100

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizes[i]
}
