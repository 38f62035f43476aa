// Package htmlutils provides HTML processing helpers for issue and comment
// bodies before they are handed to the assessment model.
package htmlutils

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are elements whose text content carries no signal for
// answer assessment.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// StripTags removes all HTML markup from the input, keeping the visible text.
// Block-level boundaries become newlines so code blocks and paragraphs stay
// readable in the prompt. Input that is not valid HTML is returned as text.
func StripTags(input string) string {
	if !strings.ContainsRune(input, '<') {
		return CollapseBlankLines(input)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))

	var sb strings.Builder

	skipDepth := 0

	for {
		tt := tokenizer.Next()

		switch tt {
		case html.ErrorToken:
			return CollapseBlankLines(sb.String())
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)

			if skippedElements[tag] {
				if tt == html.StartTagToken {
					skipDepth++
				} else if tt == html.EndTagToken && skipDepth > 0 {
					skipDepth--
				}

				continue
			}

			// Close of a block element ends a line; <br> breaks in place.
			if skipDepth == 0 && (tag == "br" || (tt == html.EndTagToken && isBlockBoundary(tag))) {
				sb.WriteByte('\n')
			}
		}
	}
}

// isBlockBoundary reports whether a tag should introduce a line break in the
// extracted text.
func isBlockBoundary(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "pre", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}

	return false
}

// CollapseBlankLines trims trailing whitespace per line and collapses runs of
// blank lines into a single one.
func CollapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")

		if line == "" {
			if blank {
				continue
			}

			blank = true
		} else {
			blank = false
		}

		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Truncate limits s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max]) + "..."
}
