package constants

import "strings"

// AllowedExtensions holds the file extensions accepted by the document
// extraction batch.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// TabularExtensions holds the file extensions accepted by the tabular import.
var TabularExtensions = map[string]struct{}{
	"csv":  {},
	"xlsx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
