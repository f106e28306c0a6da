package utils

import (
	"path"
	"strings"
)

// FileNameFromURL returns the part of a resource url after the last slash, or
// the whole url when it has none. The result is lowercased.
func FileNameFromURL(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		url = url[i+1:]
	}
	return strings.ToLower(url)
}

// ObjectKey places key under prefix, using forward slashes whatever the OS.
func ObjectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
