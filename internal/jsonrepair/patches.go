package jsonrepair

import (
	"regexp"
	"strings"
)

// StripFences removes leading and trailing markdown code-fence markers
// sometimes wrapped around model output.
func StripFences(text string) string {
	out := strings.TrimSpace(text)

	if strings.HasPrefix(out, "```") {
		if idx := strings.IndexByte(out, '\n'); idx >= 0 {
			out = out[idx+1:]
		} else {
			out = strings.TrimPrefix(out, "```json")
			out = strings.TrimPrefix(out, "```")
		}
	}
	if strings.HasSuffix(out, "```") {
		out = out[:len(out)-3]
	}
	return strings.TrimSpace(out)
}

// DropDanglingComma removes a trailing comma left by a truncated element
// list at the very end of the text.
func DropDanglingComma(text string) string {
	trimmed := strings.TrimRight(text, " \t\r\n")
	if strings.HasSuffix(trimmed, ",") {
		return trimmed[:len(trimmed)-1]
	}
	return text
}

// CloseUnterminatedString appends a closing quote when the text ends
// inside a string literal.
func CloseUnterminatedString(text string) string {
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		}
	}
	if inString {
		return text + `"`
	}
	return text
}

// unquotedKeyRe matches a bare object key after `{` or `,`.
var unquotedKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)

// QuoteUnquotedKeys wraps bare object keys in double quotes.
func QuoteUnquotedKeys(text string) string {
	return replaceOutsideStrings(text, func(segment string) string {
		return unquotedKeyRe.ReplaceAllString(segment, `$1"$2"$3`)
	})
}

// trailingCommaRe matches a comma directly before a closing brace or bracket.
var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// StripTrailingCommas removes commas directly before closing delimiters.
func StripTrailingCommas(text string) string {
	return replaceOutsideStrings(text, func(segment string) string {
		return trailingCommaRe.ReplaceAllString(segment, `$1`)
	})
}

// BalanceDelimiters appends the closing braces and brackets a truncated
// document is missing, in the order the open delimiters require.
func BalanceDelimiters(text string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(text)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// replaceOutsideStrings applies fn to the spans of text that lie outside
// string literals, leaving literal contents untouched.
func replaceOutsideStrings(text string, fn func(string) string) string {
	var b strings.Builder
	inString := false
	escaped := false
	segStart := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				// Emit the literal (content plus closing quote) untouched.
				b.WriteString(text[segStart : i+1])
				inString = false
				segStart = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(fn(text[segStart:i]))
			b.WriteByte('"')
			inString = true
			segStart = i + 1
		}
	}
	if inString {
		// Unterminated literal: emit the remainder untouched.
		b.WriteString(text[segStart:])
	} else {
		b.WriteString(fn(text[segStart:]))
	}
	return b.String()
}
