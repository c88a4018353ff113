package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName normalizes an uploaded archive name for safe use as an
// on-disk file name. Path separators become underscores; traversal
// sequences, control characters, and empty names are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", errInvalidFileName
		}
	}

	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." {
		return "", errInvalidFileName
	}
	return s, nil
}
