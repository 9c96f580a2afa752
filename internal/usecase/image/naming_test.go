package image

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a/b/photo.jpg":       "photo.jpg",
		"https://example.com/photo.png?size=large": "photo.png",
		"https://example.com/":                     fallbackName,
		"https://example.com":                      fallbackName,
		"://bad":                                   fallbackName,
	}
	for raw, want := range tests {
		if got := nameFromURL(raw); got != want {
			t.Errorf("nameFromURL(%q) = %q; want %q", raw, got, want)
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"photo.png":              "photo.png",
		"  photo.png ":           "photo.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\photo.png`: "photo.png",
		"":                       fallbackName,
		"..":                     fallbackName,
		"dir/":                   fallbackName,
	}
	for in, want := range tests {
		if got := cleanName(in); got != want {
			t.Errorf("cleanName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCleanName_BoundsLength(t *testing.T) {
	tests := map[string]struct {
		in      string
		wantExt string
	}{
		"ascii stem":      {strings.Repeat("a", 300) + ".png", ".png"},
		"multibyte stem":  {strings.Repeat("é", 200) + ".jpeg", ".jpeg"},
		"no extension":    {strings.Repeat("b", 400), ""},
		"absurd ext":      {"x." + strings.Repeat("c", 300), ""},
		"from a long url": {nameFromURL("https://example.com/" + strings.Repeat("d", 500) + ".webp?x=1"), ".webp"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := cleanName(tc.in)
			if len(got) > maxNameBytes {
				t.Errorf("len = %d; want <= %d", len(got), maxNameBytes)
			}
			if !utf8.ValidString(got) {
				t.Errorf("%q is not valid UTF-8", got)
			}
			if !strings.HasSuffix(got, tc.wantExt) {
				t.Errorf("%q lost its extension %q", got, tc.wantExt)
			}
		})
	}
}
