// ABOUTME: README decoding and markup normalization
// ABOUTME: Strips byte order marks and rewrites AsciiDoc listings as Markdown fences
package readme

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts raw README bytes to UTF-8, honoring a UTF-8 or UTF-16 byte order mark
func Decode(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsAsciiDoc reports whether the README at path is AsciiDoc
func IsAsciiDoc(path, text string) bool {
	if lang, ok := enry.GetLanguageByExtension(filepath.Base(path)); ok {
		return lang == "AsciiDoc"
	}
	return enry.GetLanguage(filepath.Base(path), []byte(text)) == "AsciiDoc"
}

// Normalize returns Markdown-shaped text for the cutter
func Normalize(path, text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if IsAsciiDoc(path, text) {
		return asciiDocToMarkdown(text)
	}
	return text
}

var (
	sourceAttr   = regexp.MustCompile(`^\[source(?:,\s*([\w+-]+))?[^\]]*\]$`)
	listingFence = regexp.MustCompile(`^(-{4,}|\.{4,})$`)
	adocHeading  = regexp.MustCompile(`^(={1,6})\s+(.*)$`)
)

// asciiDocToMarkdown rewrites listing blocks as fenced blocks and section titles as headings.
// Everything else is left as is.
func asciiDocToMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	lang := ""
	inBlock := ""
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if inBlock != "" {
			if t == inBlock {
				out = append(out, "```")
				inBlock = ""
				continue
			}
			out = append(out, l)
			continue
		}
		if m := sourceAttr.FindStringSubmatch(t); m != nil {
			lang = m[1]
			continue
		}
		if listingFence.MatchString(t) {
			out = append(out, "```"+lang)
			inBlock = t
			lang = ""
			continue
		}
		lang = ""
		if m := adocHeading.FindStringSubmatch(t); m != nil {
			out = append(out, strings.Repeat("#", len(m[1]))+" "+m[2])
			continue
		}
		out = append(out, l)
	}
	if inBlock != "" {
		out = append(out, "```")
	}
	return strings.Join(out, "\n")
}
