package scraper

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DetectEncoding detects the character encoding of fetched HTML
func DetectEncoding(content []byte) string {
	head := string(content[:min(1024, len(content))])

	if enc := charsetFromMeta(head); enc != "" {
		return enc
	}

	_, name, _ := charset.DetermineEncoding(content, "")
	if name != "" {
		return name
	}

	return "utf-8"
}

// charsetFromMeta extracts the charset value from a meta tag
func charsetFromMeta(head string) string {
	head = strings.ToLower(head)

	idx := strings.Index(head, "charset=")
	if idx == -1 {
		return ""
	}
	start := idx + len("charset=")

	if start < len(head) && (head[start] == '"' || head[start] == '\'') {
		start++
	}

	end := start
	for end < len(head) {
		c := head[end]
		if c == '"' || c == '\'' || c == ';' || c == '>' || c == ' ' {
			break
		}
		end++
	}

	if end <= start {
		return ""
	}
	return strings.TrimSpace(head[start:end])
}

// ConvertToUTF8 converts fetched content to UTF-8 using the detected
// encoding. Content with an unknown declared charset passes through
// unchanged rather than failing the page.
func ConvertToUTF8(content []byte) ([]byte, error) {
	enc := DetectEncoding(content)

	if enc == "utf-8" || enc == "utf8" {
		return content, nil
	}

	e, err := htmlindex.Get(enc)
	if err != nil {
		return content, nil
	}

	reader := transform.NewReader(bytes.NewReader(content), e.NewDecoder())
	return io.ReadAll(reader)
}
