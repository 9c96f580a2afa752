package image

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

const (
	fallbackName = "image"
	// keeps staged file names and the original_name column within bounds
	maxNameBytes = 150
	maxExtBytes  = 16
)

// nameFromURL returns the last path segment of rawURL, ignoring the query.
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackName
	}
	return cleanName(path.Base(u.Path))
}

// cleanName keeps only the base name of a client-supplied file name.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return fallbackName
	}
	return truncateName(name, maxNameBytes)
}

// truncateName shortens name to at most limit bytes, cutting the stem on a
// rune boundary and keeping a reasonable extension.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := path.Ext(name)
	if len(ext) > maxExtBytes {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	cut := limit - len(ext)
	for cut > 0 && !utf8.RuneStart(stem[cut]) {
		cut--
	}
	if cut == 0 {
		return fallbackName + ext
	}
	return stem[:cut] + ext
}
