// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext recovers human-readable text from raw PDF bytes without
// parsing the PDF object model. It scans content streams for parenthesized
// string literals, which is enough for downstream citation matching; it is
// not a conformant PDF parser and accepts false positives and negatives.
package pdftext

import (
	"regexp"
	"strings"
)

// showTextRe matches a parenthesized literal immediately followed by a
// show-text operator (Tj, TJ, or the quote operators). Escaped characters
// inside the literal are allowed.
var showTextRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|TJ|'|")`)

// parenRe matches every parenthesized literal, with no operator anchor.
// Used by the looser secondary pass.
var parenRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)

// minFragments is the primary-pass yield below which the secondary pass runs.
const minFragments = 5

// minFragmentLen is the shortest fragment kept after decoding.
const minFragmentLen = 3

// metadataPrefixes mark fragments that are document metadata, not body text.
var metadataPrefixes = []string{
	"CreationDate", "ModDate", "Producer", "Creator", "Title", "Author", "Subject",
}

// Extract returns a best-effort plain-text reconstruction of the document.
// The byte stream is treated as Latin-1, one byte per character, so the
// structural scan never misinterprets multi-byte sequences. On any internal
// failure Extract returns an empty string; the caller's insufficient-text
// branch handles the rest.
func Extract(data []byte) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	raw := string(data)

	fragments := scan(raw, showTextRe)
	if len(fragments) < minFragments {
		// The show-text anchor under-matched, likely unusual content
		// stream formatting. Rerun with the looser grammar.
		fragments = scan(raw, parenRe)
	}

	return strings.Join(fragments, " ")
}

// scan runs one tokenizer pass over the raw stream with the given grammar
// and returns the decoded, filtered fragments in document order.
func scan(raw string, re *regexp.Regexp) []string {
	var fragments []string
	for _, m := range re.FindAllStringSubmatch(raw, -1) {
		frag := decodeFragment(m[1])
		if keepFragment(frag) {
			fragments = append(fragments, frag)
		}
	}
	return fragments
}

// decodeFragment turns one parenthesized literal into plain text. Literals
// starting with a UTF-16BE byte-order marker are decoded as UTF-16BE;
// everything else is unescaped as a Latin-1 literal.
func decodeFragment(s string) string {
	if len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF {
		return decodeUTF16BE(s[2:])
	}
	return strings.TrimSpace(unescape(s))
}

// decodeUTF16BE decodes big-endian 16-bit code units. Units in the
// surrogate range are discarded: text worth matching here is assumed to be
// single-unit.
func decodeUTF16BE(s string) string {
	var b strings.Builder
	for i := 0; i+1 < len(s); i += 2 {
		u := rune(s[i])<<8 | rune(s[i+1])
		if u >= 0xD800 && u < 0xE000 {
			continue
		}
		b.WriteRune(u)
	}
	return strings.TrimSpace(b.String())
}

// unescape resolves the backslash sequences PDF literals use for newline,
// carriage return, tab, backslash, and parentheses. Unrecognized escapes
// keep the escaped character as-is.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '(', ')':
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// keepFragment filters out metadata lines and fragments too short to be
// prose.
func keepFragment(frag string) bool {
	if len(frag) < minFragmentLen {
		return false
	}
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(frag, prefix) {
			return false
		}
	}
	return true
}
