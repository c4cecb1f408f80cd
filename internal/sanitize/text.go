// Package sanitize cleans user-submitted form values before they are stored.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	whitespaceRe = regexp.MustCompile(`[\r\n\t ]+`)
	octetRe      = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
)

// TextField cleans a single-line text value. Invalid UTF-8 is rejected and
// markup is stripped, script and style contents included. A "<" that never
// closes into a tag is kept as "&lt;". Whitespace runs collapse to one space,
// control characters are dropped and percent-encoded octets are removed.
func TextField(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}

	if strings.Contains(s, "<") {
		s = StripTags(escapeUnclosedTags(s))
	}

	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(strings.Map(dropControl, s))

	found := false
	for octetRe.MatchString(s) {
		s = octetRe.ReplaceAllString(s, "")
		found = true
	}
	if found {
		s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	}

	return s
}

func dropControl(r rune) rune {
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

// escapeUnclosedTags turns every "<" that is not closed by a ">" before the
// next "<" (or the end of s) into "&lt;", so the tokenizer reads it as text.
func escapeUnclosedTags(s string) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]

		j := strings.IndexAny(s[1:], "<>")
		if j >= 0 && s[1+j] == '>' {
			b.WriteString(s[:j+2])
			s = s[j+2:]
			continue
		}
		b.WriteString("&lt;")
		s = s[1:]
	}
}

// StripTags removes every HTML tag and comment from s, and drops the text
// inside script and style elements. Character references are kept as written.
func StripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if isRawTextElement(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextElement(z) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawTextElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
