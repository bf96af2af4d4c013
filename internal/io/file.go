package ioutils

import (
	"context"
	"os"
	"strings"
)

// invalidFileNameChars lists the characters removed by SanitizeFileName, in
// addition to ASCII control characters.
const invalidFileNameChars = `/\:*?"<>|`

// SanitizeFileName removes characters that are invalid in file names.
//
// Characters are deleted rather than replaced, so "AC/DC" becomes "ACDC".
// Only the fixed denylist / \ : * ? " < > | and control characters
// (0x00-0x1f, 0x7f) are handled; platform reserved names such as "CON" are
// passed through unchanged.
//
// Example:
//
//	SanitizeFileName("What? Why: Now")  // Returns "What Why Now"
//	SanitizeFileName(`a\b/c`)           // Returns "abc"
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(invalidFileNameChars, r) {
			return -1
		}
		return r
	}, name)
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644 and truncated if it already exists.
// The context is checked once before writing.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
