package iri

import (
	"os"
	"strings"
)

// ParseCharset extracts a declared charset token from a header-like string
// such as a Content-Type value. The token runs from just after "charset="
// (matched case-insensitively) up to the first whitespace byte. It returns
// "" when no plausible charset is declared; malformed candidates are
// discarded silently apart from a debug log line.
func (s *Session) ParseCharset(header string) string {
	if header == "" {
		return ""
	}

	idx := strings.Index(asciiLower(header), "charset=")
	if idx < 0 {
		return ""
	}

	rest := header[idx+len("charset="):]
	end := 0
	for end < len(rest) && !isSpace(rest[end]) {
		end++
	}

	charset := rest[:end]
	if charset == "" || !ValidEncodingName(charset) {
		s.log.Debug().Str("charset", charset).Msg("discarding implausible charset token")
		return ""
	}

	return charset
}

// ValidEncodingName reports whether name looks like an encoding name:
// non-empty, every byte ASCII, none whitespace.
func ValidEncodingName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7f || isSpace(name[i]) {
			return false
		}
	}
	return true
}

// asciiLower folds only the ASCII letters A-Z, so every byte offset into
// the result is valid in the original string. Full Unicode lowercasing can
// change byte lengths and shift offsets.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// FindLocale returns the preferred encoding of the current locale, derived
// from the usual POSIX environment variables. "en_US.UTF-8" yields "UTF-8".
// When the environment names no codeset, UTF-8 is assumed.
func FindLocale() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if codeset := localeCodeset(v); codeset != "" {
			return codeset
		}
		// A locale with no codeset suffix (C, POSIX, en_US) still
		// settles the lookup order.
		break
	}
	return "UTF-8"
}

// localeCodeset extracts the codeset from a locale name like
// "pt_BR.ISO-8859-1@currency".
func localeCodeset(locale string) string {
	if dot := strings.IndexByte(locale, '.'); dot >= 0 {
		codeset := locale[dot+1:]
		if at := strings.IndexByte(codeset, '@'); at >= 0 {
			codeset = codeset[:at]
		}
		if ValidEncodingName(codeset) {
			return codeset
		}
	}
	return ""
}
