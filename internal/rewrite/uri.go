package rewrite

import (
	"strings"
	"unicode/utf8"
)

// uriKeep lists the ASCII characters left untouched by encodeURI besides
// letters and digits: the URI reserved set, the unreserved marks and '#'.
const uriKeep = ";,/?:@&=+$-_.!~*'()#"

// uriReserved escapes are left encoded by decodeURI.
const uriReserved = ";/?:@&=+$,#"

const upperHex = "0123456789ABCDEF"

// encodeURI percent-encodes every byte of s outside the URI character set,
// leaving already meaningful separators such as '/', '#' and '?' alone.
func encodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := range len(s) {
		c := s[i]
		if isAlnum(c) || strings.IndexByte(uriKeep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// decodeURI reverses percent-encoding except for escapes of reserved
// characters, which stay as written. Malformed escapes or a result that is
// not valid UTF-8 return s unchanged.
func decodeURI(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b = append(b, s[i])
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return s
		}
		c := unhex(s[i+1])<<4 | unhex(s[i+2])
		if strings.IndexByte(uriReserved, c) >= 0 {
			b = append(b, s[i:i+3]...)
		} else {
			b = append(b, c)
		}
		i += 2
	}
	if !utf8.Valid(b) {
		return s
	}
	return string(b)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
