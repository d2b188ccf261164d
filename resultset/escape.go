package resultset

import (
	"strings"
	"unicode/utf8"
)

var (
	xmlUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	xmlTextEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
	)
	xmlAttrEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
	)
	n3Escaper = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	jsonFlattener = strings.NewReplacer(
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
		"\t", " ",
	)
)

// escapeXML escapes text content exactly once: entities that are already
// escaped are unescaped first, so re-serializing escaped content does not
// double-escape it.
func escapeXML(value string) string {
	return xmlTextEscaper.Replace(xmlUnescaper.Replace(stripInvalidXMLChars(value)))
}

// escapeXMLAttr is escapeXML for attribute values.
func escapeXMLAttr(value string) string {
	return xmlAttrEscaper.Replace(xmlUnescaper.Replace(stripInvalidXMLChars(value)))
}

// escapeN3 escapes a literal for N3, N-Triples and the reification blocks.
func escapeN3(value string) string {
	return n3Escaper.Replace(value)
}

// flattenJSON replaces line breaks and tabs by a single space.
func flattenJSON(value string) string {
	return jsonFlattener.Replace(value)
}

// stripInvalidXMLChars drops characters XML 1.0 cannot carry.
func stripInvalidXMLChars(value string) string {
	valid := true
	for _, r := range value {
		if !isXMLChar(r) {
			valid = false
			break
		}
	}
	if valid {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if isXMLChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isXMLChar(r rune) bool {
	switch {
	case r == utf8.RuneError:
		return false
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
